package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"timed-quiz-service/internal/domain"
)

// Client talks to the quiz REST API. It satisfies session.QuestionSource and
// session.SubmissionSink.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchQuestions calls GET /api/quiz/questions.
func (c *Client) FetchQuestions(ctx context.Context) ([]domain.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/quiz/questions", nil)
	if err != nil {
		return nil, err
	}
	var questions []domain.Question
	if err := c.do(req, &questions); err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	return questions, nil
}

// SubmitAnswers calls POST /api/quiz/submit.
func (c *Client) SubmitAnswers(ctx context.Context, answers []domain.Answer) (domain.SubmitResponse, error) {
	if answers == nil {
		answers = []domain.Answer{}
	}
	body, err := json.Marshal(struct {
		Answers []domain.Answer `json:"answers"`
	}{Answers: answers})
	if err != nil {
		return domain.SubmitResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/quiz/submit", bytes.NewReader(body))
	if err != nil {
		return domain.SubmitResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp domain.SubmitResponse
	if err := c.do(req, &resp); err != nil {
		return domain.SubmitResponse{}, fmt.Errorf("submit answers: %w", err)
	}
	return resp, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &body)
		return &StatusError{Code: res.StatusCode, Message: body.Error}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
