/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ipfix

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"syscall"

	"golang.org/x/sys/unix"
)

var (
	// An IPFIX message's length field is 16 bits, so no datagram can
	// exceed 65535 bytes; the receive buffer is sized to match and reused
	// across datagrams (§5 "Buffer discipline").
	UDPPacketBufferSize int = 65535

	// Number of packets being buffered in the channel. This effectively moves
	// packet buffering from UDP socket to the user space, which alleviates most
	// packet loss issues, but also increases memory usage, as each buffered
	// packet holds its own copy of up to 64kbytes.
	UDPChannelBufferSize int = 50
)

// Datagram is one received UDP payload together with the address it
// arrived from.
type Datagram struct {
	Payload []byte
	Addr    netip.AddrPort
}

type UDPListener struct {
	bindAddr string
	packetCh chan Datagram

	addr     *net.UDPAddr
	listener net.PacketConn
}

func NewUDPListener(bindAddr string) *UDPListener {
	return &UDPListener{
		bindAddr: bindAddr,
		packetCh: make(chan Datagram, UDPChannelBufferSize),
	}
}

func (l *UDPListener) Listen(ctx context.Context) (err error) {
	logger := FromContext(ctx)
	// do this last such that the goroutine reading packets exits before closing the channel
	defer close(l.packetCh)
	l.addr, err = net.ResolveUDPAddr("udp", l.bindAddr)
	if err != nil {
		logger.Error(err, "failed to resolve UDP address", "addr", l.bindAddr)
		return err
	}
	listenConfig := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var err error
			controlErr := c.Control(func(fd uintptr) {
				err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
				if err != nil {
					return
				}
				err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
			if controlErr != nil {
				err = controlErr
			}
			return err
		},
	}
	l.listener, err = listenConfig.ListenPacket(ctx, "udp", l.bindAddr)
	if err != nil {
		logger.Error(err, "failed to bind udp listener", "addr", l.addr)
	}
	readerDone := make(chan struct{})
	defer func() {
		l.listener.Close()
		<-readerDone
	}()

	var rerr error
	go func() {
		defer close(readerDone)
		// allocate this buffer once and re-use it for each packet to read from the socket
		buffer := make([]byte, UDPPacketBufferSize)
		for {
			n, addr, err := l.listener.ReadFrom(buffer)
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				UDPErrorsTotal.Inc()
				rerr = err
				logger.Error(err, "failed to read from UDP socket")
				return
			}
			UDPPacketsTotal.Inc()
			UDPPacketBytes.Add(float64(n))

			// allocate a smaller, trimmed to the actual packet size buffer to
			// dispose the large 2^16 byte buffer to not claim this memory forever,
			// as just handing "buffer[:n]" will NOT actually shrink the original object
			packet := make([]byte, n)
			copy(packet, buffer[:n])

			var addrPort netip.AddrPort
			if udpAddr, ok := addr.(*net.UDPAddr); ok {
				addrPort = udpAddr.AddrPort()
			}

			select {
			case l.packetCh <- Datagram{Payload: packet, Addr: addrPort}:
			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Info("Started UDP listener", "addr", l.bindAddr)

	<-ctx.Done()
	logger.Info("Shutting down UDP listener", "addr", l.bindAddr)

	// use error from reader goroutine if set
	err = rerr
	return
}

func (l *UDPListener) Messages() <-chan Datagram {
	return l.packetCh
}
