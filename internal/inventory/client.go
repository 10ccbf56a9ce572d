package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"myitems/internal"
	"myitems/internal/config"
	"myitems/internal/util"
)

// Client talks to the property-management backend with a bearer token.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
}

// StatusError is a non-2xx backend response. Callers tolerate it per
// source; transport errors are returned as-is and abort the fetch.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("inventory api error: endpoint=%s status=%d body=%s", e.Endpoint, e.StatusCode, e.Body)
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.APITimeoutMs) * time.Millisecond},
	}
}

// ResolvePersonnelID looks up the logged-in user's personnel identifier.
// The endpoint answers either {personnel:{id,...}} or a bare {id,...}.
// A missing identifier resolves to 0 without an error; the caller
// degrades to an empty item list.
func (c *Client) ResolvePersonnelID(ctx context.Context) (int64, error) {
	body, err := c.getJSON(ctx, "teacher/personnel/me", nil)
	if err != nil {
		return 0, err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, err
	}

	if nested, ok := payload["personnel"].(map[string]any); ok {
		if id, ok := toInt64(nested["id"]); ok {
			return id, nil
		}
		return 0, nil
	}
	if id, ok := toInt64(payload["id"]); ok {
		return id, nil
	}
	return 0, nil
}

// FetchSchoolItems lists school inventory records. The page size bound is
// large enough to return the whole tenant in one request.
func (c *Client) FetchSchoolItems(ctx context.Context) ([]internal.RawSchoolItem, error) {
	body, err := c.getJSON(ctx, "property-custodian/inventory", map[string]string{
		"per_page": strconv.Itoa(c.cfg.FetchPageSize),
	})
	if err != nil {
		return nil, err
	}

	raws, err := decodeListEnvelope(body)
	if err != nil {
		return nil, err
	}
	out := make([]internal.RawSchoolItem, 0, len(raws))
	for _, raw := range raws {
		item, err := toSchoolItem(raw)
		if err != nil {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// FetchDCPItems lists DCP package inventory records for one personnel id.
func (c *Client) FetchDCPItems(ctx context.Context, personnelID int64) ([]internal.RawDCPItem, error) {
	body, err := c.getJSON(ctx, "property-custodian/dcp-inventory", map[string]string{
		"personnel_id": strconv.FormatInt(personnelID, 10),
		"per_page":     strconv.Itoa(c.cfg.FetchPageSize),
	})
	if err != nil {
		return nil, err
	}

	raws, err := decodeListEnvelope(body)
	if err != nil {
		return nil, err
	}
	out := make([]internal.RawDCPItem, 0, len(raws))
	for _, raw := range raws {
		item, err := toDCPItem(raw)
		if err != nil {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// AssetImageURL derives the public image URL from a stored image path:
// the storage prefix is stripped and only the last path segment is kept.
func (c *Client) AssetImageURL(imagePath string) string {
	trimmed := strings.TrimPrefix(imagePath, "/")
	trimmed = strings.TrimPrefix(trimmed, "storage/")
	name := path.Base(trimmed)
	if name == "" || name == "." || name == "/" {
		return ""
	}
	return c.cfg.APIBaseURL + "/inventory-asset/" + name
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	if strings.TrimSpace(c.cfg.APIToken) == "" {
		return nil, errors.New("missing INVENTORY_API_TOKEN")
	}

	u, err := url.Parse(strings.TrimRight(c.cfg.APIBaseURL, "/") + "/" + endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// decodeListEnvelope accepts the three envelope shapes the backend emits:
// {data:[...]}, a bare array, or {items:[...]}. Anything else decodes to
// an empty list, matching the dashboard's lenient handling.
func decodeListEnvelope(body []byte) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var out []map[string]any
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}

	for _, raw := range [][]byte{envelope.Data, envelope.Items} {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var out []map[string]any
		if err := json.Unmarshal(raw, &out); err != nil {
			continue
		}
		return out, nil
	}
	return nil, nil
}

func toSchoolItem(raw map[string]any) (internal.RawSchoolItem, error) {
	id, ok := toInt64(raw["id"])
	if !ok {
		return internal.RawSchoolItem{}, errors.New("missing id")
	}
	personnelID, _ := toInt64(raw["personnel_id"])

	item := internal.RawSchoolItem{ID: id, PersonnelID: personnelID}
	item.Name = toStringPtr(raw["name"])
	item.Description = toStringPtr(raw["description"])
	item.Category = toStringPtr(raw["category"])
	item.SerialNumber = toStringPtr(raw["serial_number"])
	item.Brand = toStringPtr(raw["brand"])
	item.Model = toStringPtr(raw["model"])
	item.Quantity = toFloatPtr(raw["quantity"])
	item.UnitOfMeasure = toStringPtr(raw["unit_of_measure"])
	item.Status = toStringPtr(raw["status"])
	item.ConditionStatus = toStringPtr(raw["condition_status"])
	item.PropertyNo = toStringPtr(raw["property_no"])
	item.Location = toStringPtr(raw["location"])
	item.UnitPrice = toFloatPtr(raw["unit_price"])
	item.Notes = toStringPtr(raw["notes"])
	item.Remarks = toStringPtr(raw["remarks"])
	item.ImagePath = toStringPtr(raw["image_path"])
	item.AssignedAt = toTimePtr(raw["assigned_at"])
	item.CreatedAt = toTimePtr(raw["created_at"])
	item.UpdatedAt = toTimePtr(raw["updated_at"])
	return item, nil
}

func toDCPItem(raw map[string]any) (internal.RawDCPItem, error) {
	id, ok := toInt64(raw["id"])
	if !ok {
		return internal.RawDCPItem{}, errors.New("missing id")
	}
	personnelID, _ := toInt64(raw["personnel_id"])

	item := internal.RawDCPItem{ID: id, PersonnelID: personnelID}
	item.Name = toStringPtr(raw["name"])
	item.Description = toStringPtr(raw["description"])
	item.Category = toStringPtr(raw["category"])
	item.SerialNumber = toStringPtr(raw["serial_number"])
	item.Brand = toStringPtr(raw["brand"])
	item.Manufacturer = toStringPtr(raw["manufacturer"])
	item.Model = toStringPtr(raw["model"])
	item.Quantity = toFloatPtr(raw["quantity"])
	item.AvailableQuantity = toFloatPtr(raw["available_quantity"])
	item.UnitOfMeasure = toStringPtr(raw["unit_of_measure"])
	item.Status = toStringPtr(raw["status"])
	item.ConditionStatus = toStringPtr(raw["condition_status"])
	item.PropertyNo = toStringPtr(raw["property_no"])
	item.Location = toStringPtr(raw["location"])
	item.UnitValue = toFloatPtr(raw["unit_value"])
	item.Notes = toStringPtr(raw["notes"])
	item.Remarks = toStringPtr(raw["remarks"])
	item.ImagePath = toStringPtr(raw["image_path"])
	item.AssignedAt = toTimePtr(raw["assigned_at"])
	item.CreatedAt = toTimePtr(raw["created_at"])
	item.UpdatedAt = toTimePtr(raw["updated_at"])
	return item, nil
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return parsed, err == nil
	case json.Number:
		i, err := t.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

// toFloatPtr tolerates numeric strings; the backend serializes money
// columns as "1500.00".
func toFloatPtr(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case int:
		f := float64(t)
		return &f
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return util.FloatPtr(parsed)
		}
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return &f
		}
	}
	return nil
}

func toStringPtr(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return util.StringPtr(s)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func toTimePtr(v any) *time.Time {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return &parsed
		}
	}
	return nil
}
