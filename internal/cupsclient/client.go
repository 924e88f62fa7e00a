package cupsclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	goipp "github.com/OpenPrinting/goipp"
)

// PasswordFunc asks the operator for a password. It is only called when
// the server rejects a request with 401.
type PasswordFunc func(prompt string) (string, error)

// adminResource is where cupsd accepts the CUPS-Get-* operations.
const adminResource = "/"

type Client struct {
	Host               string
	Port               int
	UseTLS             bool
	User               string
	Password           string
	InsecureSkipVerify bool
	PasswordPrompt     PasswordFunc
	Timeout            time.Duration
}

type ClientOption func(*Client)

func WithServer(server string) ClientOption {
	return func(c *Client) {
		host, port, useTLS := parseServer(server)
		if host != "" {
			c.Host = host
		}
		if port > 0 {
			c.Port = port
		}
		if useTLS {
			c.UseTLS = true
		}
	}
}

func WithPort(port int) ClientOption {
	return func(c *Client) {
		if port > 0 {
			c.Port = port
		}
	}
}

func WithTLS(enable bool) ClientOption {
	return func(c *Client) {
		if enable {
			c.UseTLS = true
		}
	}
}

func WithUser(user string) ClientOption {
	return func(c *Client) {
		if strings.TrimSpace(user) != "" {
			c.User = user
		}
	}
}

func WithPasswordPrompt(fn PasswordFunc) ClientOption {
	return func(c *Client) {
		c.PasswordPrompt = fn
	}
}

// NewFromConfig starts from client.conf and the CUPS_* environment and
// applies opts on top.
func NewFromConfig(opts ...ClientOption) *Client {
	s := loadSettings()
	client := &Client{
		Host:               s.host,
		Port:               s.port,
		UseTLS:             s.useTLS,
		User:               s.user,
		Password:           s.password,
		InsecureSkipVerify: s.insecure,
		Timeout:            60 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.Host == "" {
		client.Host = "localhost"
	}
	if client.Port == 0 {
		client.Port = defaultIPPPort()
	}
	return client
}

func (c *Client) urlForPath(path string) string {
	scheme := "http"
	if c.UseTLS {
		scheme = "https"
	}
	return scheme + "://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port)) + path
}

// Send posts msg to the CUPS admin resource and decodes the reply. A 401 answer triggers one password prompt and a retry.
func (c *Client) Send(ctx context.Context, msg *goipp.Message) (*goipp.Message, error) {
	if msg == nil {
		return nil, errors.New("missing ipp message")
	}
	payload, err := msg.EncodeBytes()
	if err != nil {
		return nil, err
	}
	target := c.urlForPath(adminResource)
	httpClient := &http.Client{
		Timeout: c.Timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: c.InsecureSkipVerify},
		},
	}

	prompted := false
	for {
		resp, err := c.post(ctx, httpClient, target, payload)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusUnauthorized && !prompted && c.PasswordPrompt != nil {
			resp.Body.Close()
			prompted = true
			password, err := c.PasswordPrompt(fmt.Sprintf("Password for %s on %s? ", c.User, c.Host))
			if err != nil {
				return nil, fmt.Errorf("read password: %w", err)
			}
			c.Password = password
			continue
		}
		defer resp.Body.Close()
		if resp.StatusCode/100 != 2 {
			return nil, fmt.Errorf("%s: %s", target, resp.Status)
		}
		out := &goipp.Message{}
		if err := out.Decode(resp.Body); err != nil {
			return nil, fmt.Errorf("decode ipp response: %w", err)
		}
		return out, nil
	}
}

func (c *Client) post(ctx context.Context, httpClient *http.Client, target string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", goipp.ContentType)
	req.Header.Set("Accept", goipp.ContentType)
	if c.User != "" && c.Password != "" {
		req.SetBasicAuth(c.User, c.Password)
	}
	return httpClient.Do(req)
}
