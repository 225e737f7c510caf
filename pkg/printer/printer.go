package printer

import (
	"fmt"
	"net"
	"os"
	"time"
)

const (
	dialTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second
	statusCheckTimeout = 2 * time.Second
)

// Printer delivers a rendered receipt job (raw ESC/POS bytes) to a thermal
// printer at the front desk.
type Printer interface {
	// Print pushes one complete receipt job to the device.
	Print(data []byte) error
	// Close releases whatever handle the printer holds.
	Close() error
	// IsConnected reports whether the device is currently reachable.
	IsConnected() bool
}

// devicePrinter writes receipt jobs to a local device file, the usual setup
// for a USB-attached receipt printer (e.g. /dev/usb/lp0).
type devicePrinter struct {
	device string
}

// NewUSBPrinter returns a Printer backed by a USB device file.
func NewUSBPrinter(devicePath string) Printer {
	return &devicePrinter{device: devicePath}
}

func (p *devicePrinter) Print(data []byte) error {
	// Open per job; holding the device open blocks other writers.
	f, err := os.OpenFile(p.device, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.device, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.device, err)
	}
	return nil
}

func (p *devicePrinter) Close() error {
	return nil
}

func (p *devicePrinter) IsConnected() bool {
	_, err := os.Stat(p.device)
	return err == nil
}

// tcpPrinter dials a receipt printer listening on the raw-print port
// (conventionally 9100) for each job.
type tcpPrinter struct {
	addr string
}

// NewNetworkPrinter returns a Printer that dials the given host:port,
// e.g. "10.0.0.5:9100".
func NewNetworkPrinter(address string) Printer {
	return &tcpPrinter{addr: address}
}

func (p *tcpPrinter) Print(data []byte) error {
	conn, err := net.DialTimeout("tcp", p.addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("printer: dial %s: %w", p.addr, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.addr, err)
	}
	return nil
}

func (p *tcpPrinter) Close() error {
	return nil
}

func (p *tcpPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.addr, statusCheckTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// discardPrinter accepts every job and drops it. Branches without a receipt
// printer run with this so the billing flow never depends on hardware.
type discardPrinter struct{}

// NewNullPrinter returns a Printer that silently discards jobs.
func NewNullPrinter() Printer {
	return &discardPrinter{}
}

func (p *discardPrinter) Print(data []byte) error { return nil }
func (p *discardPrinter) Close() error            { return nil }
func (p *discardPrinter) IsConnected() bool       { return false }

// NewPrinterFromConfig builds the Printer matching the configured transport:
// "usb" with a device path, "network" with a host:port address, or "none".
func NewPrinterFromConfig(printerType, usbPath, address string) (Printer, error) {
	switch printerType {
	case "usb":
		if usbPath == "" {
			return nil, fmt.Errorf("printer: usb printer needs a device path")
		}
		return NewUSBPrinter(usbPath), nil
	case "network":
		if address == "" {
			return nil, fmt.Errorf("printer: network printer needs an address")
		}
		return NewNetworkPrinter(address), nil
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unsupported printer type %q (usb, network, or none)", printerType)
	}
}
