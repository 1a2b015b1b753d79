package transport

import (
	"context"

	"github.com/brutella/dnssd"
)

const tcpServiceType = "_nmea-0183._tcp"

// AnnounceTCP advertises the TCP fan-out endpoint over mDNS/DNS-SD so
// chartplotter apps can discover it without a typed-in address. Errors are
// returned rather than logged so the caller decides how noisy to be.
func AnnounceTCP(ctx context.Context, name string, port int) (func(), error) {
	cfg := dnssd.Config{
		Name: name,
		Type: tcpServiceType,
		Port: port,
	}

	service, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, err
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return nil, err
	}

	if _, err := responder.Add(service); err != nil {
		return nil, err
	}

	respondCtx, cancel := context.WithCancel(ctx)
	go func() {
		_ = responder.Respond(respondCtx)
	}()

	return cancel, nil
}
