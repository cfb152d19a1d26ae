package evaluator

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"net/url"
	"strings"

	"askseer-mcp/internal/domain/entity"
)

const dataURLPrefix = "data:" + entity.MimeTypePNG + ";base64,"

// Validate turns a request into a Target. It has no side effects; error
// messages are safe to show to the caller.
func Validate(req entity.EvaluationRequest) (*entity.Target, error) {
	hasURL := strings.TrimSpace(req.URL) != ""
	hasImage := strings.TrimSpace(req.Image) != ""

	switch {
	case hasURL && hasImage:
		return nil, errors.New("provide either url or image, not both")
	case !hasURL && !hasImage:
		return nil, errors.New("one of url or image is required")
	case hasURL:
		u, err := validateURL(req.URL)
		if err != nil {
			return nil, err
		}
		return &entity.Target{Variant: entity.VariantURL, URL: u}, nil
	default:
		shot, err := decodeImage(req.Image)
		if err != nil {
			return nil, err
		}
		return &entity.Target{Variant: entity.VariantImage, Image: shot}, nil
	}
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("url %q is not an absolute URL", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("url %q must use http or https", raw)
	}
	return u.String(), nil
}

func decodeImage(raw string) (*entity.Screenshot, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, dataURLPrefix)

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, errors.New("image is not valid base64")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || format != "png" {
		return nil, errors.New("image is not a PNG")
	}

	return &entity.Screenshot{Data: data, Width: cfg.Width, Height: cfg.Height}, nil
}
