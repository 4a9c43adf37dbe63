package userservice

// Profile модель профиля пользователя из UserService
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	CountryCode string `json:"country_code,omitempty"` // ISO 3166-1 alpha-2 (PE, KR, ...)
}

// consultantResolution ответ на разрешение handle консультанта
type consultantResolution struct {
	ID string `json:"id"`
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
