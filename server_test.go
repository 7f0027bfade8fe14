package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"business-advisor/chat"
	"business-advisor/completion"
)

type stubClient struct {
	reply      string
	shouldFail bool
	calls      int
}

func (s *stubClient) Complete(ctx context.Context, messages []completion.Message, params completion.Params) (string, error) {
	s.calls++
	if s.shouldFail {
		return "", fmt.Errorf("stub completion failure")
	}
	return s.reply, nil
}

func newTestServer(client completion.Client) *httptest.Server {
	orchestrator := chat.NewOrchestrator(client, completion.Params{Model: "test"}, chat.HistoryWindow)
	server := NewServer(chat.NewRegistry(), orchestrator)
	return httptest.NewServer(server.Router())
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	assert.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func createSession(t *testing.T, baseURL string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, baseURL+"/sessions", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["session_id"].(string)
}

func advisorWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	f.NewSheet("Sales")
	salesRows := [][]interface{}{
		{"Date", "Customer", "Total_Revenue"},
		{"2025-01-15", "Acme", 1000},
		{"2025-02-10", "Globex", 2000},
	}
	for i, row := range salesRows {
		cells := row
		f.SetSheetRow("Sales", fmt.Sprintf("A%d", i+1), &cells)
	}

	f.NewSheet("Expenses")
	expenseRows := [][]interface{}{
		{"Category", "Amount"},
		{"Rent", 500},
		{"Salaries", 700},
	}
	for i, row := range expenseRows {
		cells := row
		f.SetSheetRow("Expenses", fmt.Sprintf("A%d", i+1), &cells)
	}

	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	assert.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func uploadWorkbook(t *testing.T, url string, data []byte) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "data.xlsx")
	assert.NoError(t, err)
	_, err = part.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestGeneralModeChatFlow(t *testing.T) {
	client := &stubClient{reply: "consider raising prices"}
	ts := newTestServer(client)
	defer ts.Close()

	id := createSession(t, ts.URL)
	sessionURL := ts.URL + "/sessions/" + id

	resp, _ := doJSON(t, http.MethodPost, sessionURL+"/mode", map[string]string{"mode": "general"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, sessionURL+"/messages", map[string]string{"text": "pricing advice?"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "consider raising prices", body["reply"])

	resp, body = doJSON(t, http.MethodGet, sessionURL+"/messages", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	messages := body["messages"].([]interface{})
	// greeting + user + assistant
	assert.Len(t, messages, 3)
}

func TestDataModeFullFlow(t *testing.T) {
	client := &stubClient{reply: "margins look healthy"}
	ts := newTestServer(client)
	defer ts.Close()

	id := createSession(t, ts.URL)
	sessionURL := ts.URL + "/sessions/" + id

	resp, _ := doJSON(t, http.MethodPost, sessionURL+"/mode", map[string]string{"mode": "data"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// chatting before any upload is rejected, nothing recorded
	resp, _ = doJSON(t, http.MethodPost, sessionURL+"/messages", map[string]string{"text": "too early"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body := uploadWorkbook(t, sessionURL+"/workbook", advisorWorkbook(t))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	sheets := body["sheets"].([]interface{})
	assert.Equal(t, []interface{}{"Sales", "Expenses"}, sheets)

	resp, body = doJSON(t, http.MethodPost, sessionURL+"/profile", map[string]string{
		"sales_sheet":    "Sales",
		"expenses_sheet": "Expenses",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "$3,000", body["total_revenue"])
	assert.Equal(t, "$1,200", body["total_expenses"])
	assert.Equal(t, "$1,800", body["net_profit"])
	assert.Equal(t, "60.0%", body["profit_margin"])
	assert.Contains(t, body["profile_text"], "- Total Revenue: 3,000.00")

	resp, body = doJSON(t, http.MethodPost, sessionURL+"/messages", map[string]string{"text": "how are margins?"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "margins look healthy", body["reply"])
}

func TestProfileWithMissingColumnsReportsNA(t *testing.T) {
	client := &stubClient{}
	ts := newTestServer(client)
	defer ts.Close()

	id := createSession(t, ts.URL)
	sessionURL := ts.URL + "/sessions/" + id

	doJSON(t, http.MethodPost, sessionURL+"/mode", map[string]string{"mode": "data"})
	uploadWorkbook(t, sessionURL+"/workbook", advisorWorkbook(t))

	// swap the sheets: the "sales" table now lacks Total_Revenue
	resp, body := doJSON(t, http.MethodPost, sessionURL+"/profile", map[string]string{
		"sales_sheet":    "Expenses",
		"expenses_sheet": "Sales",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "N/A", body["total_revenue"])
	assert.Equal(t, "N/A", body["total_expenses"])
	assert.Equal(t, "N/A", body["net_profit"])
	assert.Equal(t, "N/A", body["profit_margin"])
}

func TestCompletionFailureSurfacesAndRetainsMessage(t *testing.T) {
	client := &stubClient{shouldFail: true}
	ts := newTestServer(client)
	defer ts.Close()

	id := createSession(t, ts.URL)
	sessionURL := ts.URL + "/sessions/" + id

	doJSON(t, http.MethodPost, sessionURL+"/mode", map[string]string{"mode": "general"})

	resp, body := doJSON(t, http.MethodPost, sessionURL+"/messages", map[string]string{"text": "doomed question"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body["error"], "completion call failed")

	_, body = doJSON(t, http.MethodGet, sessionURL+"/messages", nil)
	messages := body["messages"].([]interface{})
	// greeting + the retained user message, no assistant reply
	assert.Len(t, messages, 2)
	last := messages[1].(map[string]interface{})
	assert.Equal(t, "user", last["role"])
	assert.Equal(t, "doomed question", last["content"])
}

func TestUploadRejectedOutsideDataMode(t *testing.T) {
	ts := newTestServer(&stubClient{})
	defer ts.Close()

	id := createSession(t, ts.URL)
	sessionURL := ts.URL + "/sessions/" + id

	doJSON(t, http.MethodPost, sessionURL+"/mode", map[string]string{"mode": "general"})
	resp, _ := uploadWorkbook(t, sessionURL+"/workbook", advisorWorkbook(t))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUnreadableWorkbookIsRejected(t *testing.T) {
	ts := newTestServer(&stubClient{})
	defer ts.Close()

	id := createSession(t, ts.URL)
	sessionURL := ts.URL + "/sessions/" + id

	doJSON(t, http.MethodPost, sessionURL+"/mode", map[string]string{"mode": "data"})
	resp, _ := uploadWorkbook(t, sessionURL+"/workbook", []byte("definitely not xlsx"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUnknownSessionIs404(t *testing.T) {
	ts := newTestServer(&stubClient{})
	defer ts.Close()

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/sessions/2f9f5a4e-babc-43f2-b8e6-7d1f2dc1a111/messages",
		map[string]string{"text": "anyone there?"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
