package layer

import (
	"context"
	"fmt"
	"strings"

	"github.com/firefly-engineering/proxyctl/internal/endpoint"
	proxyerrors "github.com/firefly-engineering/proxyctl/internal/errors"
	"github.com/firefly-engineering/proxyctl/internal/kconfig"
)

// kioslaverc keys.
const (
	KeyProxyType  = "ProxyType"
	KeyHTTPProxy  = "httpProxy"
	KeyHTTPSProxy = "httpsProxy"
	KeyFTPProxy   = "ftpProxy"
	KeyNoProxyFor = "NoProxyFor"
)

// ProxyType values.
const (
	ModeNone   = "0"
	ModeManual = "1"
	ModePAC    = "2"
	ModeAuto   = "3"
	ModeSystem = "4"
)

var modeNames = map[string]string{
	ModeNone:   "no proxy",
	ModeManual: "manual",
	ModePAC:    "PAC script",
	ModeAuto:   "auto-detect",
	ModeSystem: "system environment",
}

// DesktopStore is the key/value transport of the desktop layer.
type DesktopStore interface {
	CanRead() bool
	CanWrite() bool
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, pairs ...kconfig.KV) error
}

// Desktop is the DesktopConfig layer.
type Desktop struct {
	store   DesktopStore
	noProxy []string
}

// NewDesktop creates the desktop layer over store.
func NewDesktop(store DesktopStore, noProxy []string) *Desktop {
	return &Desktop{store: store, noProxy: noProxy}
}

func (d *Desktop) Name() Name { return DesktopConfig }

func (d *Desktop) Capabilities() Capabilities {
	w := d.store.CanWrite()
	return Capabilities{Readable: d.store.CanRead(), Writable: w, Toggle: w, SetEndpoint: w}
}

func (d *Desktop) Read(ctx context.Context) State {
	st := State{Layer: DesktopConfig}
	if !d.store.CanRead() {
		st.Err = proxyerrors.LayerUnreadable(string(DesktopConfig), fmt.Errorf("kreadconfig not installed"))
		return st
	}

	mode, err := d.store.Get(ctx, KeyProxyType)
	if err != nil {
		st.Err = proxyerrors.LayerUnreadable(string(DesktopConfig), err)
		return st
	}
	if mode == "" {
		mode = ModeNone
	}
	name, ok := modeNames[mode]
	if !ok {
		name = "mode " + mode
	}
	st.Detail = name

	if mode != ModeManual {
		st.Enabled = Disabled
		return st
	}
	st.Enabled = Enabled

	raw, err := d.store.Get(ctx, KeyHTTPProxy)
	if err != nil {
		st.Err = proxyerrors.LayerUnreadable(string(DesktopConfig), err)
		return st
	}
	if raw == "" {
		st.Detail = "manual, no endpoint"
		return st
	}
	ep, err := endpoint.Parse(raw)
	if err != nil {
		st.Detail = "manual, unparsable httpProxy"
		return st
	}
	st.Endpoint = ep
	return st
}

func (d *Desktop) Apply(ctx context.Context, target Target) error {
	var pairs []kconfig.KV
	if target.Enabled {
		if target.Endpoint == nil {
			return proxyerrors.LayerWriteFailed(string(DesktopConfig), fmt.Errorf("no endpoint"))
		}
		value := target.Endpoint.String()
		pairs = []kconfig.KV{
			{Key: KeyHTTPProxy, Value: value},
			{Key: KeyHTTPSProxy, Value: value},
			{Key: KeyFTPProxy, Value: value},
			{Key: KeyNoProxyFor, Value: strings.Join(d.noProxy, ",")},
			{Key: KeyProxyType, Value: ModeManual},
		}
	} else {
		pairs = []kconfig.KV{{Key: KeyProxyType, Value: ModeNone}}
	}

	if err := d.store.Set(ctx, pairs...); err != nil {
		return proxyerrors.LayerWriteFailed(string(DesktopConfig), err)
	}
	return nil
}
