package items

import (
	"context"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	ihttp "github.com/abdul-hamid-achik/itemprobe/packages/http"
)

// DefaultBaseURL is the endpoint of the local items API.
const DefaultBaseURL = "http://127.0.0.1:8080/api/items"

const contentTypeJSON = "application/json"

type Client struct {
	baseURL  string
	http     *ihttp.Client
	codec    *Codec
	validate bool
}

type Option func(*Client)

func WithCodec(codec *Codec) Option {
	return func(c *Client) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithSchemaValidation checks successful response bodies against the item
// and message schemas before decoding.
func WithSchemaValidation(enabled bool) Option {
	return func(c *Client) {
		c.validate = enabled
	}
}

func NewClient(baseURL string, httpClient *ihttp.Client, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = ihttp.NewClient()
	}
	c := &Client{
		baseURL: baseURL,
		http:    httpClient,
		codec:   DefaultCodec(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ItemURL returns the URL of the item with id.
func (c *Client) ItemURL(id int) string {
	return ihttp.JoinPath(c.baseURL, strconv.Itoa(id))
}

// Probe issues GET on the base URL and only checks the status.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, c.baseURL, "")
	return err
}

func (c *Client) List(ctx context.Context) ([]Item, error) {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL, "")
	if err != nil {
		return nil, err
	}
	if err := c.check(itemListSchema, "item list", resp.Body); err != nil {
		return nil, err
	}
	list, err := c.codec.UnmarshalList(resp.Body)
	if err != nil {
		return nil, &DecodeError{What: "item list", Body: resp.BodyString(), Err: err}
	}
	return list, nil
}

// Create posts item and returns the server's copy with its assigned id.
// item.ID is never sent.
func (c *Client) Create(ctx context.Context, item Item) (Item, error) {
	item.ID = 0
	return c.send(ctx, http.MethodPost, c.baseURL, item)
}

func (c *Client) Get(ctx context.Context, id int) (Item, error) {
	resp, err := c.do(ctx, http.MethodGet, c.ItemURL(id), "")
	if err != nil {
		return Item{}, err
	}
	return c.decodeItem(resp)
}

func (c *Client) Update(ctx context.Context, id int, item Item) (Item, error) {
	return c.send(ctx, http.MethodPut, c.ItemURL(id), item)
}

// Delete removes the item with id and returns the server's message.
func (c *Client) Delete(ctx context.Context, id int) (string, error) {
	resp, err := c.do(ctx, http.MethodDelete, c.ItemURL(id), "")
	if err != nil {
		return "", err
	}
	if err := c.check(messageSchema, "delete response", resp.Body); err != nil {
		return "", err
	}
	if !gjson.ValidBytes(resp.Body) {
		return "", &DecodeError{What: "delete response", Body: resp.BodyString(), Err: errInvalidJSON}
	}
	return gjson.GetBytes(resp.Body, "message").String(), nil
}

// Send issues a raw request against the base URL, or the item URL when id is
// non-nil. Only transport failures are errors; every status is returned.
func (c *Client) Send(ctx context.Context, method string, id *int, body string) (*ihttp.Response, error) {
	url := c.baseURL
	if id != nil {
		url = c.ItemURL(*id)
	}
	req := ihttp.NewRequest(method, url).
		SetHeader("Content-Type", contentTypeJSON).
		SetBody(body)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, method, url string, item Item) (Item, error) {
	body, err := c.codec.Marshal(item)
	if err != nil {
		return Item{}, err
	}
	resp, err := c.do(ctx, method, url, string(body))
	if err != nil {
		return Item{}, err
	}
	return c.decodeItem(resp)
}

func (c *Client) decodeItem(resp *ihttp.Response) (Item, error) {
	if err := c.check(itemSchema, "item", resp.Body); err != nil {
		return Item{}, err
	}
	item, err := c.codec.Unmarshal(resp.Body)
	if err != nil {
		return Item{}, &DecodeError{What: "item", Body: resp.BodyString(), Err: err}
	}
	return item, nil
}

func (c *Client) check(schema *gojsonschema.Schema, what string, body []byte) error {
	if !c.validate {
		return nil
	}
	if err := validate(schema, body); err != nil {
		return &DecodeError{What: what, Body: string(body), Err: err}
	}
	return nil
}

// do sends a request and turns non-2xx responses into *HTTPError.
func (c *Client) do(ctx context.Context, method, url, body string) (*ihttp.Response, error) {
	req := ihttp.NewRequest(method, url).
		SetHeader("Accept", contentTypeJSON).
		SetHeader("Content-Type", contentTypeJSON).
		SetBody(body)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	if !resp.IsSuccess() {
		return resp, &HTTPError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       resp.BodyString(),
		}
	}
	return resp, nil
}
