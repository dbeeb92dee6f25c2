// Package mermaid 通过 mermaid.ink 把图表源码变成图片。
package mermaid

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	_ "golang.org/x/image/webp"
)

const (
	// DefaultInkBase mermaid.ink 服务地址
	DefaultInkBase = "https://mermaid.ink"
	// DefaultTheme 未指定主题时使用
	DefaultTheme = "default"

	liveEditor   = "https://mermaid.live/edit/#"
	maxImageSize = 8 << 20
)

// ErrNotImage 下载内容不是可识别的图片
var ErrNotImage = errors.New("mermaid: downloaded data is not a valid image")

// state 是 mermaid.ink 与 mermaid.live 共用的负载格式
type state struct {
	Code    string      `json:"code"`
	Mermaid themeConfig `json:"mermaid"`
}

type themeConfig struct {
	Theme string `json:"theme"`
}

// Encode 将图表编码为 "pako:" + base64url(zlib(json))
func Encode(diagram, theme string) (string, error) {
	if theme == "" {
		theme = DefaultTheme
	}
	payload, err := json.Marshal(state{Code: diagram, Mermaid: themeConfig{Theme: theme}})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := zw.Write(payload); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return "pako:" + base64.URLEncoding.EncodeToString(buf.Bytes()), nil
}

// ImageURL 返回 base 服务上的图片地址
func ImageURL(base, diagram, theme string) (string, error) {
	if theme == "" {
		theme = DefaultTheme
	}
	pako, err := Encode(diagram, theme)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("theme", theme)
	q.Set("type", "webp")
	q.Set("width", "500")
	q.Set("scale", "2")
	return strings.TrimSuffix(base, "/") + "/img/" + pako + "?" + q.Encode(), nil
}

// EditURL 返回 mermaid.live 编辑器地址
func EditURL(diagram, theme string) (string, error) {
	pako, err := Encode(diagram, theme)
	if err != nil {
		return "", err
	}
	return liveEditor + pako, nil
}

// Image 已下载并校验过的图片
type Image struct {
	Data   []byte
	Format string
}

// DataURI 返回可直接放入 src 的 data URI
func (img Image) DataURI() string {
	return "data:image/" + img.Format + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// Fetch 下载 src 指向的图片并校验格式。client 为 nil 时使用 10 秒超时的默认客户端。
func Fetch(ctx context.Context, client *http.Client, src string) (Image, error) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return Image{}, err
	}
	req.Header.Set("User-Agent", "mdpreview")

	resp, err := client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Image{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image data: %w", err)
	}
	format, ok := Sniff(data)
	if !ok {
		return Image{}, ErrNotImage
	}
	return Image{Data: data, Format: format}, nil
}

// Sniff 返回图片格式名（png、jpeg、gif、webp）
func Sniff(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	return format, true
}
