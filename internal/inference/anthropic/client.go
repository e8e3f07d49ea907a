// Package anthropic implements the inference.Client interface against the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"resty.dev/v3"

	"github.com/at-ishikawa/kobun/internal/inference"
)

const apiVersion = "2023-06-01"

type Client struct {
	httpClient *resty.Client
	model      string
	maxTokens  int
}

func NewClient(apiKey, model string) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.anthropic.com")
	client.SetHeader("x-api-key", apiKey)
	client.SetHeader("anthropic-version", apiVersion)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient: client,
		model:      model,
		maxTokens:  4096,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze sends the input text to the provider with the fixed classical
// Japanese instruction and returns the validated analysis. The upstream
// call is never retried automatically; the caller decides whether to
// resubmit.
func (client *Client) Analyze(ctx context.Context, text string) (inference.Result, error) {
	requestBody := messagesRequest{
		Model:     client.model,
		MaxTokens: client.maxTokens,
		Messages: []message{
			{Role: "user", Content: buildPrompt(text)},
		},
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&messagesResponse{}).
		Post("/v1/messages")
	if err != nil {
		return inference.Result{}, fmt.Errorf("%w: httpClient.Post > %v", inference.ErrUpstream, err)
	}
	if response.IsError() {
		return inference.Result{}, fmt.Errorf("%w: status %d: %s", inference.ErrUpstream, response.StatusCode(), providerMessage(response.String()))
	}

	responseBody := response.Result().(*messagesResponse)
	if responseBody == nil || len(responseBody.Content) == 0 || responseBody.Content[0].Type != "text" {
		return inference.Result{}, fmt.Errorf("%w: empty or non-text response content", inference.ErrUpstream)
	}

	content := responseBody.Content[0].Text
	slog.Default().Debug("anthropic response content",
		"model", client.model,
		"inputLength", len(text),
		"outputLength", len(content),
	)

	return parseResult(content)
}

// parseResult strips any markdown code-fence wrapping, parses the JSON,
// and validates the structural contract: words is an array, translation
// and explanation are strings.
func parseResult(content string) (inference.Result, error) {
	raw := stripCodeFence(content)

	var generic map[string]any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return inference.Result{}, fmt.Errorf("%w: %v: %s", inference.ErrResponseParse, err, raw)
	}

	if _, ok := generic["words"].([]any); !ok {
		return inference.Result{}, fmt.Errorf("%w: words is not an array", inference.ErrResponseShape)
	}
	if _, ok := generic["translation"].(string); !ok {
		return inference.Result{}, fmt.Errorf("%w: translation is not a string", inference.ErrResponseShape)
	}
	if _, ok := generic["explanation"].(string); !ok {
		return inference.Result{}, fmt.Errorf("%w: explanation is not a string", inference.ErrResponseShape)
	}

	var result inference.Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return inference.Result{}, fmt.Errorf("%w: %v", inference.ErrResponseShape, err)
	}
	return result, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// providerMessage extracts the provider's error message from an error
// body, falling back to the raw body.
func providerMessage(body string) string {
	var parsed apiError
	if err := json.Unmarshal([]byte(body), &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return body
}

func buildPrompt(text string) string {
	return `あなたは日本の一流の古文講師です。入力されるテキストはOCRで生成されたものであり、文字の誤認、縦書き特有の行順の乱れ、ページ番号やルビの断片などのノイズが含まれる可能性があります。これらを文脈から自動補正した上で解析してください。

【解析する古文（OCR生データ）】
` + text + `

【出力構成】
以下のJSON形式で解析結果を返してください。JSON以外のテキストは一切含めないでください。

{
  "correctedText": "補正済みの本文",
  "words": [
    {
      "surface": "単語の表記（補正後）",
      "partOfSpeech": "品詞（例: 名詞、動詞、助動詞、助詞など）",
      "conjugation": "活用形（例: 未然形、連用形、終止形など。該当しない場合は空文字列）",
      "meaning": "現代語での意味",
      "colorCode": "` + inference.ColorVerb + `"
    }
  ],
  "translation": "全文の現代語訳",
  "explanation": "文法的な重要ポイントの簡潔な説明"
}

【色コードについて】
単語の種類に応じて以下の色コードを割り当ててください：
- 動詞・助動詞: ` + inference.ColorVerb + `
- 名詞: ` + inference.ColorNoun + `
- 助詞: ` + inference.ColorParticle + `
- 形容詞・形容動詞: ` + inference.ColorAdjective + `
- その他: ` + inference.ColorOther + `

【注意事項】
- JSON形式のみを返し、マークダウンやコードブロックは使用しないでください
- 単語は文中の出現順に配列へ格納してください
- correctedTextには、OCRノイズを補正した後の正しい古文テキストを格納してください`
}
