package commands

import (
	"flag"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

const defaultBase = "http://localhost:8080"

const requestTimeout = 10 * time.Second

func baseFlag(fs *flag.FlagSet) *string {
	return fs.String("base", defaultBase, "bridge base URL")
}

func get(base, path string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(base + path)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := fasthttp.DoTimeout(req, resp, requestTimeout); err != nil {
		return nil, 0, err
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	return body, resp.StatusCode(), nil
}

func postJSON(base, path string, payload []byte) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(base + path)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	if err := fasthttp.DoTimeout(req, resp, requestTimeout); err != nil {
		return nil, 0, err
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	return body, resp.StatusCode(), nil
}

func statusErr(body []byte, status int) error {
	return fmt.Errorf("unexpected status %d: %s", status, string(body))
}
