// Package client talks to the clinic REST backend that owns patient, employee,
// appointment and time-tracking records.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"clinic-archive/internal/archive"
	"clinic-archive/internal/model"
)

const maxResponseBytes = 32 << 20

type Backend struct {
	baseURL    string
	httpClient *http.Client
}

func NewBackend(baseURL string, timeout time.Duration) *Backend {
	return &Backend{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type patientRecord struct {
	ID        recordID `json:"id"`
	Name      string   `json:"name"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Status    string   `json:"status"`
}

type appointmentRecord struct {
	PatientID recordID `json:"patientId"`
	Date      string   `json:"date"`
}

type employeeRecord struct {
	ID        recordID `json:"id"`
	Name      string   `json:"name"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Status    string   `json:"status"`
}

type timeEntryRecord struct {
	EmployeeID recordID `json:"employeeId"`
	Date       string   `json:"date"`
	ClockIn    string   `json:"clockIn"`
}

// ListEntities returns the patients or employees with their latest activity:
// the most recent appointment for a patient, the most recent time entry for an employee.
func (b *Backend) ListEntities(ctx context.Context, entityType model.EntityType) ([]model.Entity, error) {
	switch entityType {
	case model.EntityPatients:
		return b.listPatients(ctx)
	case model.EntityEmployees:
		return b.listEmployees(ctx)
	default:
		return nil, model.ErrInvalidEntityType
	}
}

func (b *Backend) listPatients(ctx context.Context) ([]model.Entity, error) {
	var patients []patientRecord
	if err := b.getJSON(ctx, "/api/patients", &patients); err != nil {
		return nil, err
	}

	var appointments []appointmentRecord
	if err := b.getJSON(ctx, "/api/appointments", &appointments); err != nil {
		return nil, err
	}

	activity := make(map[string][]time.Time, len(patients))
	for _, appt := range appointments {
		if ts, ok := parseRecordTime(appt.Date); ok {
			activity[string(appt.PatientID)] = append(activity[string(appt.PatientID)], ts)
		}
	}

	entities := make([]model.Entity, 0, len(patients))
	for _, p := range patients {
		id := string(p.ID)
		entities = append(entities, model.Entity{
			ID:           id,
			Name:         displayName(p.Name, p.FirstName, p.LastName),
			Status:       p.Status,
			LastActivity: archive.LatestActivity(activity[id]...),
		})
	}

	return entities, nil
}

func (b *Backend) listEmployees(ctx context.Context) ([]model.Entity, error) {
	var employees []employeeRecord
	if err := b.getJSON(ctx, "/api/employees", &employees); err != nil {
		return nil, err
	}

	var entries []timeEntryRecord
	if err := b.getJSON(ctx, "/api/time-entries", &entries); err != nil {
		return nil, err
	}

	activity := make(map[string][]time.Time, len(employees))
	for _, entry := range entries {
		raw := entry.ClockIn
		if raw == "" {
			raw = entry.Date
		}
		if ts, ok := parseRecordTime(raw); ok {
			activity[string(entry.EmployeeID)] = append(activity[string(entry.EmployeeID)], ts)
		}
	}

	entities := make([]model.Entity, 0, len(employees))
	for _, e := range employees {
		id := string(e.ID)
		entities = append(entities, model.Entity{
			ID:           id,
			Name:         displayName(e.Name, e.FirstName, e.LastName),
			Status:       e.Status,
			LastActivity: archive.LatestActivity(activity[id]...),
		})
	}

	return entities, nil
}

func (b *Backend) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", model.ErrBackendUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: GET %s: status %d", model.ErrBackendUnavailable, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", model.ErrBackendUnavailable, path, err)
	}

	if err := json.Unmarshal(unwrapEnvelope(body), dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

// unwrapEnvelope accepts both a bare JSON array and a {"data": [...]} envelope.
func unwrapEnvelope(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data
	}
	return trimmed
}

// recordID accepts IDs encoded either as JSON strings or numbers.
type recordID string

func (r *recordID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*r = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*r = recordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*r = recordID(strconv.FormatInt(i, 10))
		return nil
	}
	*r = recordID(n.String())
	return nil
}

var recordTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseRecordTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range recordTimeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

func displayName(name string, first string, last string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
