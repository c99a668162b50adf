package domain

import "errors"

var (
	ErrSettingsNotFound = errors.New("settings not found")
)

type Settings struct {
	ID           int64  `json:"id"`
	SubjectDID   string `json:"subject_did"`
	CreatedAtUTC string `json:"created_at_utc"`
	UpdatedAtUTC string `json:"updated_at_utc"`
}

type SettingsUpsertInput struct {
	SubjectDID string
}

func NormalizeSettingsInput(input SettingsUpsertInput) (SettingsUpsertInput, error) {
	subjectDID, err := NormalizeSubjectDID(input.SubjectDID)
	if err != nil {
		return SettingsUpsertInput{}, err
	}

	return SettingsUpsertInput{SubjectDID: subjectDID}, nil
}
