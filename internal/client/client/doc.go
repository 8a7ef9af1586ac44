// Package client owns the CapSeal client's two external boundaries: the
// local capture database (InitDatabase, Repositories) and the remote sealing
// service (SealClient, HTTPSealClient).
//
// The sealing service is a black box specified only at its HTTP surface.
// Everything stateful — retry bookkeeping, the single-flight guard, the
// pending queue — lives above this package in the services layer.
package client
