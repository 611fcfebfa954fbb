package genai_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"frame-lab-backend/internal/genai"
)

func TestComposeVideoPrompt_VerticalSilent(t *testing.T) {
	prompt := genai.ComposeVideoPrompt(genai.VideoPromptParams{
		Prompt:      "A fox runs through snow",
		AspectRatio: "9:16",
		Style:       "X",
		Resolution:  "Y",
		EnableSound: false,
	})

	assert.True(t, strings.HasPrefix(prompt, "A fox runs through snow."))
	assert.True(t, strings.HasSuffix(prompt,
		"vertical video with a 9:16 aspect ratio. The visual style should be X. The video resolution should be Y. The video should be silent."),
		"got: %s", prompt)
}

func TestComposeVideoPrompt_WidescreenDefault(t *testing.T) {
	prompt := genai.ComposeVideoPrompt(genai.VideoPromptParams{
		Prompt:      "City timelapse.",
		AspectRatio: "16:9",
		Style:       "cinematic",
		Resolution:  "1080p",
		EnableSound: true,
	})

	assert.Contains(t, prompt, "widescreen video with a 16:9 aspect ratio")
	assert.Contains(t, prompt, "The visual style should be cinematic.")
	assert.Contains(t, prompt, "natural ambient sound")
	assert.NotContains(t, prompt, "silent")
}

func TestComposeVideoPrompt_VoicedInLanguage(t *testing.T) {
	prompt := genai.ComposeVideoPrompt(genai.VideoPromptParams{
		Prompt:      "A chef explains a recipe",
		AspectRatio: "16:9",
		Style:       "photorealistic",
		Resolution:  "720p",
		EnableSound: true,
		Voice:       "Spanish",
	})

	assert.Contains(t, prompt, "voices speaking in Spanish")
}

func TestComposeVideoPrompt_AnimateImagePrefix(t *testing.T) {
	prompt := genai.ComposeVideoPrompt(genai.VideoPromptParams{
		Prompt:      "make the water ripple",
		HasImage:    true,
		AspectRatio: "9:16",
		Style:       "watercolor",
		Resolution:  "720p",
	})

	assert.True(t, strings.HasPrefix(prompt, "Animate this image. make the water ripple."))
}

func TestKeyedURL_PreservesExistingQuery(t *testing.T) {
	keyed, err := genai.KeyedURL("https://provider.example.com/files/abc?alt=media", "secret-key")

	assert.NoError(t, err)
	assert.Contains(t, keyed, "alt=media")
	assert.Contains(t, keyed, "key=secret-key")
}

func TestKeyedURL_NoExistingQuery(t *testing.T) {
	keyed, err := genai.KeyedURL("https://provider.example.com/files/abc", "k")

	assert.NoError(t, err)
	assert.Equal(t, "https://provider.example.com/files/abc?key=k", keyed)
}
