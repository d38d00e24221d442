package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskReconcileChecklists = "montages:reconcile_checklists"

type ReconcileChecklistsPayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

func NewReconcileChecklistsTask(payload ReconcileChecklistsPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReconcileChecklists, data), nil
}

func ParseReconcileChecklistsPayload(task *asynq.Task) (ReconcileChecklistsPayload, error) {
	var payload ReconcileChecklistsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ReconcileChecklistsPayload{}, err
	}
	return payload, nil
}
