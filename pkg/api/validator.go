package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p AcceptQuestPayload) Validate() error {
	if p.GiverID == "" {
		return errors.New("giverId is required")
	}
	if p.QuestID == 0 {
		return errors.New("questId is required")
	}
	return nil
}

func (p GiverPayload) Validate() error {
	if p.GiverID == "" {
		return errors.New("giverId is required")
	}
	return nil
}
