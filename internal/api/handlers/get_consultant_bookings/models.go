package get_consultant_bookings

import (
	"fmt"
	"net/url"
	"time"

	"github.com/m04kA/CNP-SchedulerService/internal/domain"
	"github.com/m04kA/CNP-SchedulerService/internal/service/bookings/models"
)

// parseQuery разбирает query-параметры фильтрации в модель сервиса.
// Поддерживаются startDate, endDate (YYYY-MM-DD), status и includeInactive
func parseQuery(query url.Values, userID, consultantID string) (*models.GetConsultantBookingsRequest, error) {
	req := &models.GetConsultantBookingsRequest{
		UserID:       userID,
		ConsultantID: consultantID,
	}

	if startDateStr := query.Get("startDate"); startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		req.StartDate = &startDate
	}

	if endDateStr := query.Get("endDate"); endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		req.EndDate = &endDate
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	req.IncludeInactive = query.Get("includeInactive") == "true"

	return req, nil
}
