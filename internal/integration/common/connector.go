package common

import (
	"github.com/futig/docqa/internal/config"
	pkgHTTP "github.com/futig/docqa/pkg/http"
)

const userAgent = "docqa/1.0"

// NewModelConnector builds the pooled connector for a model server. Outbound
// calls are logged by size only.
func NewModelConnector(cfg config.HTTPClientConfig, extra ...pkgHTTP.HttpOpts) *pkgHTTP.Connector {
	opts := []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithInsecureSkipVerify(cfg.InsecureSkipVerify),
		pkgHTTP.WithHeaders(map[string]string{"User-Agent": userAgent}),
		pkgHTTP.WithAuthToken(cfg.Token),
		pkgHTTP.WithRequestLogging(),
	}

	return pkgHTTP.NewConnector(&pkgHTTP.ConnectorConfig{BaseURL: cfg.Url}, append(opts, extra...)...)
}
