package summarizer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	visionMaxCompletionTokens int64 = 700

	visionPrompt = `You are reviewing a medical image attached to a clinical referral.

Respond with a concise bullet list covering:
- Findings visible in the image.
- Abnormalities, if any.
- A conservative interpretation.
- Red flags that warrant urgent review.

Phrase everything conservatively; note uncertainty rather than guessing.
If the image contains a document, transcribe the clinically relevant text.`
)

// OpenAIVision asks a vision-capable chat model for finding-level analysis of
// an image. Its output is used directly as the final summary.
type OpenAIVision struct {
	client openai.Client
	model  string
}

func NewOpenAIVision(apiKey, model string) (*OpenAIVision, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("API key is empty")
	}

	return &OpenAIVision{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (v *OpenAIVision) Describe(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", errors.New("image is empty")
	}

	mimeType := http.DetectContentType(image)
	dataURL := fmt.Sprintf("data:%s;base64,%s",
		mimeType, base64.StdEncoding.EncodeToString(image))

	resp, err := v.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               shared.ChatModel(v.model),
		MaxCompletionTokens: openai.Int(visionMaxCompletionTokens),
		Temperature:         openai.Float(samplingTemperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(visionPrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: dataURL,
				}),
			}),
		},
	})
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("response has no choices")
	}

	findings := strings.TrimSpace(resp.Choices[0].Message.Content)
	if findings == "" {
		return "", errors.New("response content is empty")
	}

	return findings, nil
}
