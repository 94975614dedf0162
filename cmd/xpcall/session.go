package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/dispatch"
	"github.com/wippyai/xpbridge/gateway"
	"github.com/wippyai/xpbridge/internal/testcomponent"
	"github.com/wippyai/xpbridge/schema"
	"github.com/wippyai/xpbridge/wasmimpl"
)

// defaultModuleInterface names the interface declared from --wit.
const defaultModuleInterface = "module"

// session is one resolved target plus the dispatcher driving it.
type session struct {
	resolver   *schema.Resolver
	dispatcher *dispatch.Dispatcher
	target     xpbridge.Target
	release    func(context.Context) error
	log        *zap.Logger
}

func openSession(ctx context.Context, v *viper.Viper) (*session, error) {
	log := zap.NewNop()
	if v.GetBool("verbose") {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		log = l
	}
	gateway.SetLogger(log)
	wasmimpl.SetLogger(log)

	s := &session{log: log}
	var err error
	if path := v.GetString("wasm"); path != "" {
		err = s.openModule(ctx, path, v.GetString("wit"), v.GetString("interface"))
	} else {
		err = s.openComponent(v.GetString("interface"))
	}
	if err != nil {
		return nil, err
	}

	opts := dispatch.DefaultOptions()
	opts.Logger = log
	s.dispatcher = dispatch.New(s.resolver, opts)
	return s, nil
}

func (s *session) openComponent(iface string) error {
	r, err := testcomponent.NewResolver()
	if err != nil {
		return err
	}
	var ifaces []string
	if iface != "" {
		ifaces = append(ifaces, iface)
	}
	t, _, err := testcomponent.New(r, ifaces...)
	if err != nil {
		return err
	}
	s.resolver, s.target = r, t
	return nil
}

func (s *session) openModule(ctx context.Context, path, witPath, iface string) error {
	if witPath == "" {
		return errMissingWIT
	}
	wasm, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	witText, err := os.ReadFile(witPath)
	if err != nil {
		return err
	}
	if iface == "" {
		iface = defaultModuleInterface
	}

	// module interfaces get a stable identifier derived from their name
	iid := uuid.NewSHA1(uuid.NameSpaceURL, []byte("xpcall:"+iface))
	decl, err := schema.ParseWIT(iface, iid, string(witText))
	if err != nil {
		return err
	}
	r := schema.NewResolver()
	if err := r.Register(decl); err != nil {
		return err
	}
	r.Freeze()

	t, err := wasmimpl.New(ctx, r, wasm, wasmimpl.DefaultOptions(), iface)
	if err != nil {
		return err
	}
	s.resolver, s.target, s.release = r, t, t.Close
	return nil
}

func (s *session) close(ctx context.Context) {
	if s.release != nil {
		if err := s.release(ctx); err != nil {
			s.log.Warn("release target", zap.Error(err))
		}
	}
	_ = s.log.Sync()
}
