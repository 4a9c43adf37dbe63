package get_admission_state

import (
	"github.com/m04kA/CNP-SchedulerService/internal/admission"
)

// AdmissionStateResponse HTTP модель состояния допуска.
// Интервалы отдаются в целых секундах
type AdmissionStateResponse struct {
	Phase           string `json:"phase"`
	OpensInSeconds  int64  `json:"opensInSeconds,omitempty"`
	CountdownActive bool   `json:"countdownActive,omitempty"`
	StartsInSeconds int64  `json:"startsInSeconds,omitempty"`
	EndsInSeconds   int64  `json:"endsInSeconds,omitempty"`
}

// FromState конвертирует состояние допуска в HTTP response
func FromState(state *admission.State) *AdmissionStateResponse {
	return &AdmissionStateResponse{
		Phase:           string(state.Phase),
		OpensInSeconds:  int64(state.OpensIn.Seconds()),
		CountdownActive: state.CountdownActive,
		StartsInSeconds: int64(state.StartsIn.Seconds()),
		EndsInSeconds:   int64(state.EndsIn.Seconds()),
	}
}
