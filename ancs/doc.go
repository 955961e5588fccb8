// Package ancs implements the client side of the Apple Notification Center
// Service (ANCS): a protocol engine that reconstructs structured attribute
// responses from an arbitrarily fragmented byte stream, encodes Control
// Point commands, and serializes the single outstanding Control Point
// transaction against the asynchronous arrival of its response.
//
// The package does not perform GATT service discovery, CCCD subscription
// mechanics, or pairing; those are supplied by a transport.Transport
// implementation (see the sibling transport package) and bound in with
// Session.HandlesAssign.
package ancs
