package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	DefaultName  = "client"
	DefaultTopic = "General consultation"
)

// BookingRequest is the tool input sent by the calling agent.
type BookingRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
	Topic         string `json:"topic"`
}

// DisplayName returns the caller's name or the generic placeholder.
func (r BookingRequest) DisplayName() string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	return DefaultName
}

// TopicOrDefault returns the topic or a generic label.
func (r BookingRequest) TopicOrDefault() string {
	if topic := strings.TrimSpace(r.Topic); topic != "" {
		return topic
	}
	return DefaultTopic
}

// MissingFields lists the required fields that are empty.
func (r BookingRequest) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(r.PreferredDate) == "" {
		missing = append(missing, "preferredDate")
	}
	if strings.TrimSpace(r.PreferredTime) == "" {
		missing = append(missing, "preferredTime")
	}
	return missing
}

// UnmarshalJSON decodes the required fields strictly. The optional name and
// topic are kept only when they are JSON strings; any other type falls back
// to the defaults instead of rejecting an otherwise complete request.
func (r *BookingRequest) UnmarshalJSON(data []byte) error {
	var aux struct {
		Name          json.RawMessage `json:"name"`
		Email         string          `json:"email"`
		PreferredDate string          `json:"preferredDate"`
		PreferredTime string          `json:"preferredTime"`
		Topic         json.RawMessage `json:"topic"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = BookingRequest{
		Name:          optionalString(aux.Name),
		Email:         aux.Email,
		PreferredDate: aux.PreferredDate,
		PreferredTime: aux.PreferredTime,
		Topic:         optionalString(aux.Topic),
	}
	return nil
}

func optionalString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// InvokeRequest is the envelope posted to /invoke. Agents either wrap the
// booking fields in toolInput or send them at the top level.
type InvokeRequest struct {
	ToolInput json.RawMessage `json:"toolInput"`
}

// ParseInvokeRequest decodes an /invoke body and returns the booking request,
// preferring the nested toolInput object when present.
func ParseInvokeRequest(body []byte) (BookingRequest, error) {
	var envelope InvokeRequest
	if err := json.Unmarshal(body, &envelope); err != nil {
		return BookingRequest{}, err
	}

	source := body
	if input := bytes.TrimSpace(envelope.ToolInput); len(input) > 0 && !bytes.Equal(input, []byte("null")) {
		source = input
	}

	var req BookingRequest
	if err := json.Unmarshal(source, &req); err != nil {
		return BookingRequest{}, err
	}
	return req, nil
}

// InvokeResponse is the body returned from /invoke.
type InvokeResponse struct {
	Output string `json:"output"`
}
