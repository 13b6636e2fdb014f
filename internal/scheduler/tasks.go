package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskPortfolioRescan = "leads.portfolio.rescan"

// PortfolioRescanPayload identifies one owner's portfolio to rescore.
// An empty OwnerID means every owner.
type PortfolioRescanPayload struct {
	OwnerID string `json:"ownerId,omitempty"`
}

func NewPortfolioRescanTask(payload PortfolioRescanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPortfolioRescan, data), nil
}

func ParsePortfolioRescanPayload(task *asynq.Task) (PortfolioRescanPayload, error) {
	var payload PortfolioRescanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return PortfolioRescanPayload{}, err
	}
	return payload, nil
}
