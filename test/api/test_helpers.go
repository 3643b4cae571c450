//go:build e2e

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Response is the decoded envelope returned by every endpoint.
type Response struct {
	StatusCode int
	Success    bool                   `json:"success"`
	Error      string                 `json:"error"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Data       json.RawMessage        `json:"data"`
	Raw        map[string]interface{} `json:"-"`
}

func (r Response) IsSuccess() bool {
	return r.Success && r.StatusCode < http.StatusBadRequest
}

// Object decodes Data as a JSON object.
func (r Response) Object() map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal(r.Data, &out)
	return out
}

// List decodes Data as a JSON array of objects.
func (r Response) List() []map[string]interface{} {
	var out []map[string]interface{}
	_ = json.Unmarshal(r.Data, &out)
	return out
}

func (r Response) GetString(key string) string {
	if v, ok := r.Object()[key].(string); ok {
		return v
	}
	return ""
}

// BaseURL is the server root, without the API base path.
func BaseURL() string {
	if u := os.Getenv("API_URL"); u != "" {
		return u
	}
	return "http://localhost:3001"
}

var client = &http.Client{Timeout: 10 * time.Second}

func MakeRequest(method, path string, body interface{}) Response {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return Response{Error: fmt.Sprintf("marshal request body: %v", err)}
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, BaseURL()+path, reqBody)
	if err != nil {
		return Response{Error: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Response{Error: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{StatusCode: resp.StatusCode, Error: err.Error()}
	}

	out := Response{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(raw, &out); err != nil {
		out.Error = fmt.Sprintf("decode response: %v: %s", err, raw)
		return out
	}
	_ = json.Unmarshal(raw, &out.Raw)
	return out
}
