package timezone

import "strings"

// Resolver определяет IANA timezone пользователя по метаданным регистрации
// (телефон и/или код страны). Resolver тотален: при отсутствии сигнала
// возвращается DefaultTimezone, ошибок не бывает
type Resolver struct {
	defaultTZ string
}

// DefaultTimezone timezone по умолчанию, когда определить зону невозможно
const DefaultTimezone = "America/Lima"

// countryToTimezone маппинг ISO кода страны в IANA timezone
// Для стран с несколькими зонами выбрана зона столицы
var countryToTimezone = map[string]string{
	"PE": "America/Lima",
	"KR": "Asia/Seoul",
	"CO": "America/Bogota",
	"MX": "America/Mexico_City",
	"AR": "America/Argentina/Buenos_Aires",
	"CL": "America/Santiago",
	"BR": "America/Sao_Paulo",
	"EC": "America/Guayaquil",
	"BO": "America/La_Paz",
	"VE": "America/Caracas",
	"US": "America/New_York",
	"ES": "Europe/Madrid",
	"JP": "Asia/Tokyo",
	"CN": "Asia/Shanghai",
}

// phonePrefixToCountry маппинг телефонного префикса в ISO код страны
// Префиксы проверяются от длинных к коротким
var phonePrefixToCountry = map[string]string{
	"593": "EC",
	"591": "BO",
	"51":  "PE",
	"82":  "KR",
	"57":  "CO",
	"52":  "MX",
	"54":  "AR",
	"56":  "CL",
	"55":  "BR",
	"58":  "VE",
	"34":  "ES",
	"81":  "JP",
	"86":  "CN",
	"1":   "US",
}

// NewResolver создает resolver с указанной зоной по умолчанию
// Пустая строка означает DefaultTimezone
func NewResolver(defaultTZ string) *Resolver {
	if defaultTZ == "" {
		defaultTZ = DefaultTimezone
	}
	return &Resolver{defaultTZ: defaultTZ}
}

// Resolve определяет timezone по телефону и коду страны.
// Код страны имеет приоритет над эвристикой по префиксу телефона.
// Всегда возвращает валидный IANA идентификатор
func (r *Resolver) Resolve(phoneNumber, countryCode string) string {
	if countryCode != "" {
		if tz, ok := countryToTimezone[strings.ToUpper(countryCode)]; ok {
			return tz
		}
	}

	if country := countryFromPhone(phoneNumber); country != "" {
		if tz, ok := countryToTimezone[country]; ok {
			return tz
		}
	}

	return r.defaultTZ
}

// countryFromPhone определяет страну по международному префиксу номера
func countryFromPhone(phone string) string {
	digits := normalizePhone(phone)
	if digits == "" {
		return ""
	}

	// Сначала проверяем трехзначные префиксы, затем двух- и однозначные
	for _, length := range []int{3, 2, 1} {
		if len(digits) < length {
			continue
		}
		if country, ok := phonePrefixToCountry[digits[:length]]; ok {
			return country
		}
	}

	return ""
}

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+")
	phone = strings.TrimPrefix(phone, "00")

	var b strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}
