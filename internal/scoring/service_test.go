package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/ai"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/input"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubCompleter struct {
	reply  string
	err    error
	system string
	user   string
	calls  int
}

func (s *stubCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	s.system = systemPrompt
	s.user = userPrompt
	return s.reply, s.err
}

func (s *stubCompleter) Provider() string { return "stub" }
func (s *stubCompleter) Model() string    { return "stub-model" }

type stubFetcher struct {
	job string
	cv  string
	err error
}

func (f *stubFetcher) GetJobDescription(context.Context, string) (string, error) {
	return f.job, f.err
}

func (f *stubFetcher) GetCandidateInfo(context.Context, string) (string, error) {
	return f.cv, f.err
}

func newTestService(t *testing.T, fetcher input.Fetcher, completer ai.Completer, log *zap.Logger) *Service {
	t.Helper()

	svc, err := NewService(input.NewResolver(fetcher, nil), completer, log, 0)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		job  string
		cv   string
		want string
	}{
		{
			name: "texts",
			job:  "Python developer, 3 yrs",
			cv:   "5 years Python, built APIs",
			want: "# ВАКАНСИЯ\nPython developer, 3 yrs\n\n # РЕЗЮМЕ\n5 years Python, built APIs",
		},
		{
			name: "empty",
			want: "# ВАКАНСИЯ\n\n\n # РЕЗЮМЕ\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.job, tt.cv); got != tt.want {
				t.Fatalf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSystemPrompt(t *testing.T) {
	if !strings.HasPrefix(SystemPrompt, "Проскорь кандидата") {
		t.Fatalf("unexpected system prompt start: %q", SystemPrompt)
	}
	if !strings.HasSuffix(SystemPrompt, "соответствие компетенций в резюме.") {
		t.Fatalf("unexpected system prompt end: %q", SystemPrompt)
	}
	if !strings.Contains(SystemPrompt, "с какими \nзадачами") {
		t.Fatalf("expected original line breaks to be preserved")
	}
}

func TestScoreLiteralInputs(t *testing.T) {
	completer := &stubCompleter{reply: "Score: 8"}
	svc := newTestService(t, &stubFetcher{}, completer, nil)

	res, err := svc.Score(context.Background(), Request{
		JobDescription: "Python developer, 3 yrs",
		CV:             "  5 years Python, built APIs\n",
	})
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}

	wantUser := "# ВАКАНСИЯ\nPython developer, 3 yrs\n\n # РЕЗЮМЕ\n5 years Python, built APIs"
	if completer.user != wantUser {
		t.Fatalf("unexpected user prompt %q", completer.user)
	}
	if completer.system != SystemPrompt {
		t.Fatalf("expected system prompt to be sent as is")
	}

	if res.Reply != "Score: 8" {
		t.Fatalf("unexpected reply %q", res.Reply)
	}
	if res.Provider != "stub" || res.Model != "stub-model" {
		t.Fatalf("unexpected provider/model %q/%q", res.Provider, res.Model)
	}
	if res.Prompt.User != wantUser {
		t.Fatalf("result prompt mismatch: %q", res.Prompt.User)
	}
}

func TestScoreFetchesLinks(t *testing.T) {
	completer := &stubCompleter{reply: "ok"}
	fetcher := &stubFetcher{job: "# Go developer", cv: "# Иван"}
	svc := newTestService(t, fetcher, completer, nil)

	_, err := svc.Score(context.Background(), Request{
		JobDescription: "https://hh.ru/vacancy/1",
		CV:             "https://hh.ru/resume/abc",
	})
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}

	if want := "# ВАКАНСИЯ\n# Go developer\n\n # РЕЗЮМЕ\n# Иван"; completer.user != want {
		t.Fatalf("unexpected user prompt %q", completer.user)
	}
}

func TestScoreErrors(t *testing.T) {
	fetchErr := errors.New("page gone")
	statusErr := &ai.StatusError{Provider: "stub", StatusCode: 500, Body: "oops"}

	tests := []struct {
		name      string
		req       Request
		fetchErr  error
		llmErr    error
		wantPref  string
		wantErr   error
		wantCalls int
	}{
		{
			name:     "job fetch",
			req:      Request{JobDescription: "https://hh.ru/vacancy/1", CV: "text"},
			fetchErr: fetchErr,
			wantPref: "resolve job description:",
			wantErr:  fetchErr,
		},
		{
			name:     "cv fetch",
			req:      Request{JobDescription: "text", CV: "https://hh.ru/resume/1"},
			fetchErr: fetchErr,
			wantPref: "resolve cv:",
			wantErr:  fetchErr,
		},
		{
			name:      "llm status",
			req:       Request{JobDescription: "job", CV: "cv"},
			llmErr:    statusErr,
			wantPref:  "request stub:",
			wantErr:   statusErr,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &stubCompleter{err: tt.llmErr}
			svc := newTestService(t, &stubFetcher{err: tt.fetchErr}, completer, nil)

			_, err := svc.Score(context.Background(), tt.req)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.HasPrefix(err.Error(), tt.wantPref) {
				t.Fatalf("expected prefix %q, got %q", tt.wantPref, err.Error())
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected wrapped %v, got %v", tt.wantErr, err)
			}
			if completer.calls != tt.wantCalls {
				t.Fatalf("expected %d llm calls, got %d", tt.wantCalls, completer.calls)
			}
		})
	}

	var se *ai.StatusError
	svc := newTestService(t, &stubFetcher{}, &stubCompleter{err: statusErr}, nil)
	if _, err := svc.Score(context.Background(), Request{}); !errors.As(err, &se) || se.StatusCode != 500 {
		t.Fatalf("expected StatusError to survive wrapping, got %v", err)
	}
}

func TestScoreLogsWithProviderFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	svc := newTestService(t, &stubFetcher{}, &stubCompleter{reply: "Итог:\n 7/10"}, zap.New(core))

	if _, err := svc.Score(context.Background(), Request{JobDescription: "job", CV: "cv"}); err != nil {
		t.Fatalf("Score returned error: %v", err)
	}

	scored := logs.FilterMessage("candidate scored").All()
	if len(scored) != 1 {
		t.Fatalf("expected one info entry, got %d", len(scored))
	}
	fields := scored[0].ContextMap()
	if fields["llm_provider"] != "stub" || fields["llm_model"] != "stub-model" {
		t.Fatalf("expected provider fields, got %v", fields)
	}

	replies := logs.FilterMessage("scoring reply").All()
	if len(replies) != 1 || replies[0].ContextMap()["reply"] != "Итог: 7/10" {
		t.Fatalf("expected collapsed reply preview, got %v", replies)
	}
}

func TestNewServiceValidates(t *testing.T) {
	if _, err := NewService(nil, &stubCompleter{}, nil, 0); err == nil {
		t.Fatalf("expected error for missing resolver")
	}
	if _, err := NewService(input.NewResolver(&stubFetcher{}, nil), nil, nil, 0); err == nil {
		t.Fatalf("expected error for missing completer")
	}
}
