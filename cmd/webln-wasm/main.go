//go:build js && wasm

// Command webln-wasm exposes a global WebLN class to the page:
//
//	const webln = new WebLN();
//	await webln.enable();
//	const { preimage } = await webln.sendPayment("lnbc...");
//
// Set window.weblnSentryDSN before loading the module to report panics.
package main

import (
	"syscall/js"

	webln "github.com/lnbridge/go-webln"
	"github.com/lnbridge/go-webln/jsbind"
	"github.com/lnbridge/go-webln/provider/jsprovider"
	log "github.com/sirupsen/logrus"
)

var version = "dev"

func main() {
	opts := []webln.StartOption{
		webln.WithRelease(version),
		webln.WithEnvironment("browser"),
	}
	if dsn := js.Global().Get("weblnSentryDSN"); dsn.Type() == js.TypeString {
		opts = append(opts, webln.WithSentryDSN(dsn.String()))
	}
	if err := webln.Start(opts...); err != nil {
		log.WithError(err).Warn("webln diagnostics unavailable")
	}

	jsbind.Register("WebLN", jsprovider.New)
	log.Debug("WebLN class registered")

	// block to keep the wasm module API available
	select {}
}
