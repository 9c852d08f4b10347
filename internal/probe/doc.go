// Package probe performs single HTTP GET probes for httpload.
//
// This package is internal to httpload. It wraps net/http with a client tuned
// for issuing many identical requests and defines the per-probe [Result]
// message that workers send to the aggregator.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with per-probe timeout and header support
//   - [Response]: raw outcome of one request (status code or transport error)
//   - [Result]: the classified, timed message produced once per dispatched probe
//   - [Classify]: maps a [Response] to success or failure
//   - [NewClock]: the time source used to time probes
package probe
