package httpclient

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"
)

//grpc design pattern(func opton pattern) for config mgt

type HttpFuncOption func(*HttpClientWrapper)

type HttpClientWrapper struct {
	client         *http.Client
	contextTimeout time.Duration
	headers        map[string]string
	maxBodyBytes   int64
}

// Terminal sites serve different markup (or nothing) to clients that do not look like a browser
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9,th;q=0.8",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
	"Connection":      "keep-alive",
}

func defaultHttpConfig() HttpClientWrapper {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxConnsPerHost = 4
	t.MaxIdleConnsPerHost = 2
	t.IdleConnTimeout = 90 * time.Second
	t.DisableKeepAlives = false
	if t.TLSClientConfig == nil {
		t.TLSClientConfig = &tls.Config{}
	}

	headers := make(map[string]string, len(browserHeaders))
	for k, v := range browserHeaders {
		headers[k] = v
	}

	return HttpClientWrapper{
		client:         &http.Client{Transport: t},
		contextTimeout: 20 * time.Second,
		headers:        headers,
		maxBodyBytes:   8 << 20,
	}
}

func (hc *HttpClientWrapper) transport() *http.Transport {
	if transport, ok := hc.client.Transport.(*http.Transport); ok {
		return transport
	}
	return nil
}

func WithCtxTimeout(ctxTimeout time.Duration) HttpFuncOption {
	return func(httpConfig *HttpClientWrapper) {
		httpConfig.contextTimeout = ctxTimeout
	}
}

func WithHeader(key, value string) HttpFuncOption {
	return func(httpConfig *HttpClientWrapper) {
		httpConfig.headers[key] = value
	}
}

func WithMaxBodyBytes(max int64) HttpFuncOption {
	return func(httpConfig *HttpClientWrapper) {
		httpConfig.maxBodyBytes = max
	}
}

func WithMaxIdleConns(max int) HttpFuncOption {
	return func(httpConfig *HttpClientWrapper) {
		if transport := httpConfig.transport(); transport != nil {
			transport.MaxIdleConns = max
		}
	}
}

func WithMaxConnsPerHost(max int) HttpFuncOption {
	return func(httpConfig *HttpClientWrapper) {
		if transport := httpConfig.transport(); transport != nil {
			transport.MaxConnsPerHost = max
		}
	}
}

func WithIdleConnTimeout(timeout time.Duration) HttpFuncOption {
	return func(httpConfig *HttpClientWrapper) {
		if transport := httpConfig.transport(); transport != nil {
			transport.IdleConnTimeout = timeout
		}
	}
}

// WithInsecureTLS skips certificate verification; several terminal sites run expired certificates.
func WithInsecureTLS(insecure bool) HttpFuncOption {
	return func(httpConfig *HttpClientWrapper) {
		if transport := httpConfig.transport(); transport != nil {
			transport.TLSClientConfig.InsecureSkipVerify = insecure
		}
	}
}

func WithProxySetup(proxyAddress *url.URL) HttpFuncOption {
	return func(httpConfig *HttpClientWrapper) {
		if transport := httpConfig.transport(); transport != nil {
			transport.Proxy = http.ProxyURL(proxyAddress)
		}
	}
}

// WithTransport replaces the round tripper, mostly for tests.
func WithTransport(rt http.RoundTripper) HttpFuncOption {
	return func(httpConfig *HttpClientWrapper) {
		httpConfig.client.Transport = rt
	}
}

type HttpClient struct {
	HttpClientWrapper
}

// Constructor to create an instance of the HttpClientWrapper with connection pool setup
func CreateHttpClientInstance(httpConfig ...HttpFuncOption) *HttpClient {
	d := defaultHttpConfig()
	for _, fn := range httpConfig {
		fn(&d)
	}
	return &HttpClient{d}
}
