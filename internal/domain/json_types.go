package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList is a custom type for a JSON array of strings
type StringList []string

// Scan implements sql.Scanner
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, s)
}

// Value implements driver.Valuer
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Attachment is a file attached to a message
type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Mime string `json:"mime"`
	Size int64  `json:"size"`
}

// AttachmentList is a custom type for a JSON array of attachments
type AttachmentList []Attachment

// Scan implements sql.Scanner
func (a *AttachmentList) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, a)
}

// Value implements driver.Valuer
func (a AttachmentList) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// VoiceNote is an optional voice recording on a message
type VoiceNote struct {
	URL      string    `json:"url"`
	Mime     string    `json:"mime"`
	Duration float64   `json:"duration"`
	Waveform []float64 `json:"waveform,omitempty"`
}

// Scan implements sql.Scanner
func (v *VoiceNote) Scan(value interface{}) error {
	if value == nil {
		*v = VoiceNote{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, v)
}

// Value implements driver.Valuer
func (v VoiceNote) Value() (driver.Value, error) {
	if v.URL == "" {
		return nil, nil
	}
	return json.Marshal(v)
}
