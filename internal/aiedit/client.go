/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package aiedit calls a generateContent style generative image endpoint to
// edit a raster from a text prompt.
package aiedit

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"gocanvaseditor/internal/errs"
	applog "gocanvaseditor/internal/log"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash-image"
	MaxPromptLen   = 1000
)

// Reason classifies a failed edit.
type Reason string

const (
	ReasonBlocked    Reason = "blocked"
	ReasonSafety     Reason = "safety"
	ReasonRecitation Reason = "recitation"
	ReasonEmpty      Reason = "empty"
	ReasonOther      Reason = "other"
)

// Failure is returned, wrapped as errs.ErrRemoteEditFailure, when the service
// answered without a usable image.
type Failure struct {
	Reason Reason
	Detail string
}

func (f *Failure) Error() string {
	switch f.Reason {
	case ReasonBlocked:
		return "request was blocked: " + f.Detail
	case ReasonSafety:
		return "the request was blocked for safety reasons; try a different prompt or image"
	case ReasonRecitation:
		return "the request was blocked to prevent recitation of copyrighted material; try a different image"
	case ReasonEmpty:
		return "the model returned an empty response"
	}
	if f.Detail != "" {
		return "edit failed: " + f.Detail
	}
	return "edit failed"
}

// Client talks to the edit endpoint. The zero value is not usable; call New.
type Client struct {
	BaseURL string
	Model   string
	APIKey  string
	client  *http.Client
}

// New creates a client. Empty baseURL or model use the defaults.
func New(baseURL, model, apiKey string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type request struct {
	Contents         []content `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
	} `json:"generationConfig"`
}

type response struct {
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Candidates []struct {
		Content      *content `json:"content,omitempty"`
		FinishReason string   `json:"finishReason,omitempty"`
	} `json:"candidates"`
}

// ValidatePrompt checks the prompt length in runes.
func ValidatePrompt(prompt string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(prompt))
	if n < 1 || n > MaxPromptLen {
		return errs.Invalid("Failed to generate AI image", "prompt must be 1-%d characters, got %d", MaxPromptLen, n)
	}
	return nil
}

// Edit sends pixels with the prompt and returns the first image in the reply
// with its MIME type.
func (c *Client) Edit(ctx context.Context, pixels []byte, mime, prompt string) ([]byte, string, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return nil, "", err
	}
	log := applog.WithOperation(applog.WithComponent("aiedit"), "edit")
	var req request
	req.Contents = []content{{Parts: []part{
		{InlineData: &inlineData{MimeType: mime, Data: base64.StdEncoding.EncodeToString(pixels)}},
		{Text: prompt},
	}}}
	req.GenerationConfig.ResponseModalities = []string{"IMAGE"}

	var resp response
	start := time.Now()
	if err := c.doJSON(ctx, "/models/"+url.PathEscape(c.Model)+":generateContent", req, &resp); err != nil {
		log.Error("request failed", "err", err)
		return nil, "", errs.Wrap("Failed to generate AI image", errs.ErrRemoteEditFailure, &Failure{Reason: ReasonOther, Detail: err.Error()})
	}
	data, outMime, err := extract(resp)
	if err != nil {
		log.Warn("no image in response", "err", err)
		return nil, "", errs.Wrap("Failed to generate AI image", errs.ErrRemoteEditFailure, err)
	}
	log.Info("edit complete", "bytes", len(data), "mime", outMime, "took", time.Since(start))
	return data, outMime, nil
}

func extract(resp response) ([]byte, string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, "", &Failure{Reason: ReasonBlocked, Detail: resp.PromptFeedback.BlockReason}
	}
	if len(resp.Candidates) == 0 {
		return nil, "", &Failure{Reason: ReasonEmpty}
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		switch cand.FinishReason {
		case "SAFETY":
			return nil, "", &Failure{Reason: ReasonSafety}
		case "RECITATION":
			return nil, "", &Failure{Reason: ReasonRecitation}
		case "", "STOP":
			return nil, "", &Failure{Reason: ReasonEmpty}
		}
		return nil, "", &Failure{Reason: ReasonOther, Detail: cand.FinishReason}
	}
	var text []string
	for _, p := range cand.Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			b, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, "", &Failure{Reason: ReasonOther, Detail: "bad image data: " + err.Error()}
			}
			return b, p.InlineData.MimeType, nil
		}
		if t := strings.TrimSpace(p.Text); t != "" {
			text = append(text, t)
		}
	}
	if len(text) > 0 {
		return nil, "", &Failure{Reason: ReasonOther, Detail: fmt.Sprintf("model responded with text instead of an image: %q", strings.Join(text, " "))}
	}
	return nil, "", &Failure{Reason: ReasonEmpty}
}

func (c *Client) doJSON(ctx context.Context, path string, body, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-goog-api-key", c.APIKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server POST %s: %s %s", u.Path, resp.Status, strings.TrimSpace(string(msg)))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
