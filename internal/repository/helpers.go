package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/circle360/api/internal/database"
	"github.com/circle360/api/internal/model"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// isUniqueConstraintError checks if an error is a unique index violation.
// SurrealDB phrases these as "index ... already contains ...".
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "already contains") ||
		strings.Contains(errStr, "unique") ||
		strings.Contains(errStr, "duplicate")
}

// convertRecordID converts a SurrealDB record ID to a string
func convertRecordID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
	case map[string]interface{}:
		if tb, ok := v["tb"].(string); ok {
			if idVal, ok := v["id"]; ok {
				return fmt.Sprintf("%s:%v", tb, idVal)
			}
		}
		if tb, ok := v["Table"].(string); ok {
			if idVal, ok := v["ID"]; ok {
				return fmt.Sprintf("%s:%v", tb, idVal)
			}
		}
	}
	return fmt.Sprintf("%v", id)
}

// unwrapRecord navigates the SurrealDB response structure down to a single
// record map, or returns database.ErrNotFound when the result is empty.
func unwrapRecord(result interface{}) (map[string]interface{}, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	if resp, ok := result.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok {
				if len(resultData) == 0 {
					return nil, database.ErrNotFound
				}
				result = resultData[0]
			}
		}
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result format", database.ErrQuery)
	}
	return data, nil
}

// unwrapRecords collects every record map from a multi-statement query result.
func unwrapRecords(results []interface{}) []map[string]interface{} {
	records := make([]map[string]interface{}, 0)
	for _, result := range results {
		resp, ok := result.(map[string]interface{})
		if !ok {
			continue
		}
		if status, ok := resp["status"].(string); !ok || status != "OK" {
			continue
		}
		resultData, ok := resp["result"].([]interface{})
		if !ok {
			continue
		}
		for _, item := range resultData {
			if data, ok := item.(map[string]interface{}); ok {
				records = append(records, data)
			}
		}
	}
	return records
}

// decodeRecord converts a record map into a typed model value via a JSON
// round-trip, after normalizing the record ID to a string.
func decodeRecord[T any](data map[string]interface{}) (*T, error) {
	if id, ok := data["id"]; ok {
		data["id"] = convertRecordID(id)
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(jsonBytes, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// memberVars converts a roster entry to a plain map for query variables.
// The driver serializes maps predictably; structs would need tag plumbing.
func memberVars(m model.Member) map[string]interface{} {
	v := map[string]interface{}{
		"email":    m.Email,
		"accepted": m.Accepted,
	}
	if m.UserID != "" {
		v["userID"] = m.UserID
	}
	return v
}

func membersVars(members []model.Member) []interface{} {
	out := make([]interface{}, 0, len(members))
	for _, m := range members {
		out = append(out, memberVars(m))
	}
	return out
}

// refVars converts a myGroups entry to a plain map for query variables.
func refVars(ref model.GroupRef) map[string]interface{} {
	return map[string]interface{}{
		"groupID": ref.GroupID,
		"name":    ref.Name,
		"admin":   ref.Admin,
	}
}

func refsVars(refs []model.GroupRef) []interface{} {
	out := make([]interface{}, 0, len(refs))
	for _, ref := range refs {
		out = append(out, refVars(ref))
	}
	return out
}
