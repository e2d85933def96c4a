// Package jsprovider is the provider that talks to the browser's window.webln
// from a GOOS=js GOARCH=wasm build.
//
// Every call invokes the matching window.webln method, waits for the returned
// promise, and decodes its value through JSON.stringify. Rejections carry only
// a message in most wallets, so their kind is guessed with
// provider.ClassifyMessage.
package jsprovider
