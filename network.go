package gamesdk

import (
	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/limits"
)

// NetworkManager sends messages between peers over routes the client
// relays. A peer's route is published by the peer itself and arrives
// through OnRouteUpdate.
type NetworkManager struct {
	manager
}

// PeerID returns the id other peers use to address this client.
func (n *NetworkManager) PeerID() (uint64, error) {
	var f frame
	defer f.release()
	id := new(uint64)
	if _, err := n.call(abi.NetworkGetPeerID, ref(&f, id)); err != nil {
		return 0, err
	}
	return *id, nil
}

// Flush sends queued messages and should be called once per pump.
func (n *NetworkManager) Flush() error {
	return n.check(abi.NetworkFlush)
}

// OpenPeer opens a connection to peerID over route.
func (n *NetworkManager) OpenPeer(peerID uint64, route string) error {
	var f frame
	defer f.release()
	return n.check(abi.NetworkOpenPeer, uintptr(peerID), f.cstr(route))
}

// UpdatePeer switches an open peer to a new route that peer published.
func (n *NetworkManager) UpdatePeer(peerID uint64, route string) error {
	var f frame
	defer f.release()
	return n.check(abi.NetworkUpdatePeer, uintptr(peerID), f.cstr(route))
}

// ClosePeer closes the connection to peerID and its channels.
func (n *NetworkManager) ClosePeer(peerID uint64) error {
	return n.check(abi.NetworkClosePeer, uintptr(peerID))
}

// OpenChannel opens channel to peerID. Reliable channels retry and keep
// order.
func (n *NetworkManager) OpenChannel(peerID uint64, channel uint8, reliable bool) error {
	return n.check(abi.NetworkOpenChannel, uintptr(peerID), uintptr(channel), cbool(reliable))
}

// CloseChannel closes channel to peerID.
func (n *NetworkManager) CloseChannel(peerID uint64, channel uint8) error {
	return n.check(abi.NetworkCloseChannel, uintptr(peerID), uintptr(channel))
}

// SendMessage queues data on an open channel. It goes out on the next
// Flush.
func (n *NetworkManager) SendMessage(peerID uint64, channel uint8, data []byte) error {
	if err := limits.ValidateMessage(data); err != nil {
		return err
	}
	var f frame
	defer f.release()
	p, size := f.bytes(data)
	return n.check(abi.NetworkSendMessage, uintptr(peerID), uintptr(channel), p, size)
}
