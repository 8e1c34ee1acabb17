package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

const validPublishersYAML = `
publishers:
  - id: results-queue
    type: queue
    queue:
      provider: aws-sqs
      aws:
        uri: "https://sqs.us-east-1.amazonaws.com/123/headlines"
        region: us-east-1
        access_key_id: AKIATEST
        secret_access_key: secret
  - id: webhook
    type: http
    enabled: false
    http:
      url: "https://sink.test/headlines"
`

func TestLoadRegistry(t *testing.T) {
	reg, err := LoadRegistry(writeFile(t, "publishers.yaml", validPublishersYAML))
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}

	if got := len(reg.All()); got != 2 {
		t.Fatalf("All() has %d entries, want 2", got)
	}
	if got := len(reg.Enabled()); got != 1 {
		t.Errorf("Enabled() has %d entries, want 1", got)
	}

	cfg, ok := reg.ByID("webhook")
	if !ok {
		t.Fatal("ByID(webhook) not found")
	}
	if cfg.HTTP.Method != "POST" {
		t.Errorf("http method = %q, want default POST", cfg.HTTP.Method)
	}
	if cfg.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Errorf("http timeout = %d, want default %d", cfg.HTTP.TimeoutSeconds, httpDefaultTimeoutSeconds)
	}
}

func TestLoadRegistryExpandsEnv(t *testing.T) {
	t.Setenv("TEST_SNS_TOPIC", "arn:aws:sns:us-east-1:123:headlines")

	content := `
publishers:
  - id: alerts
    type: queue
    queue:
      provider: aws-sns
      sns:
        topic_arn: "${TEST_SNS_TOPIC}"
        region: us-east-1
        access_key_id: AKIATEST
        secret_access_key: secret
`
	reg, err := LoadRegistry(writeFile(t, "publishers.yaml", content))
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}

	cfg, _ := reg.ByID("alerts")
	if cfg.Queue.SNS.TopicARN != "arn:aws:sns:us-east-1:123:headlines" {
		t.Errorf("topic_arn = %q, env var not expanded", cfg.Queue.SNS.TopicARN)
	}
}

func TestLoadRegistryRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "empty file",
			content: "publishers: []\n",
		},
		{
			name: "missing id",
			content: `
publishers:
  - type: http
    http:
      url: "https://sink.test"
`,
		},
		{
			name: "duplicate ids",
			content: `
publishers:
  - id: a
    type: http
    http: {url: "https://one.test"}
  - id: a
    type: http
    http: {url: "https://two.test"}
`,
		},
		{
			name: "http without url",
			content: `
publishers:
  - id: a
    type: http
    http: {method: POST}
`,
		},
		{
			name: "sqs missing region",
			content: `
publishers:
  - id: a
    type: queue
    queue:
      provider: aws-sqs
      aws:
        uri: "https://sqs.test/q"
        access_key_id: k
        secret_access_key: s
`,
		},
		{
			name: "azure is declared but unsupported",
			content: `
publishers:
  - id: a
    type: queue
    queue:
      provider: azure
`,
		},
		{
			name: "unknown type",
			content: `
publishers:
  - id: a
    type: carrier-pigeon
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadRegistry(writeFile(t, "publishers.yaml", tt.content)); err == nil {
				t.Error("LoadRegistry must reject invalid config")
			}
		})
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	content := `{"publishers":[{"id":"hook","type":"http","http":{"url":"https://sink.test"}}]}`
	reg, err := LoadRegistry(writeFile(t, "publishers.json", content))
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	if _, ok := reg.ByID("hook"); !ok {
		t.Error("ByID(hook) not found")
	}
}
