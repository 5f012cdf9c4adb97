package office

import (
	"fmt"
	"sync/atomic"

	"github.com/unidoc/unioffice/common/license"
)

// LicenseConfig selects how unioffice is activated. Only one of the keys is needed.
type LicenseConfig struct {
	MeteredKey   string
	OfflineKey   string
	CustomerName string
}

var licensed atomic.Bool

// Activate installs the unioffice license. Without a key it reports false and
// DOCX reading and writing go through the built-in OOXML codec.
func Activate(cfg LicenseConfig) (bool, error) {
	switch {
	case cfg.MeteredKey != "":
		if err := license.SetMeteredKey(cfg.MeteredKey); err != nil {
			return false, fmt.Errorf("set unioffice metered key: %w", err)
		}
	case cfg.OfflineKey != "":
		if err := license.SetLicenseKey(cfg.OfflineKey, cfg.CustomerName); err != nil {
			return false, fmt.Errorf("set unioffice license key: %w", err)
		}
	default:
		return false, nil
	}

	licensed.Store(true)
	return true, nil
}

// Licensed reports whether unioffice may be used
func Licensed() bool {
	return licensed.Load()
}
