package robot

import (
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Options controls base station discovery and the serial line settings.
type Options struct {
	BaudRate     int
	Timeout      time.Duration
	VendorMarker string // substring of the port description
	VendorID     string // USB vendor id, hex
	QueueDepth   int
}

// PortInfo describes one serial port seen during a scan.
type PortInfo struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	VID           string `json:"vid,omitempty"`
	PID           string `json:"pid,omitempty"`
	IsBaseStation bool   `json:"isBaseStation"`
}

// Scanner enumerates and opens serial ports. The function fields are
// replaced in tests.
type Scanner struct {
	Options Options
	List    func() ([]*enumerator.PortDetails, error)
	Open    func(name string, opts Options) (Port, error)
}

// NewScanner creates a scanner backed by the host's serial ports.
func NewScanner(opts Options) *Scanner {
	return &Scanner{
		Options: opts,
		List:    enumerator.GetDetailedPortsList,
		Open:    openSerial,
	}
}

func openSerial(name string, opts Options) (Port, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	if opts.Timeout > 0 {
		if err := port.SetReadTimeout(opts.Timeout); err != nil {
			port.Close()
			return nil, err
		}
	}
	return port, nil
}

// Scan lists every serial port and marks the base stations. This blocks
// on the OS and is only run on explicit request.
func (s *Scanner) Scan() ([]PortInfo, error) {
	details, err := s.List()
	if err != nil {
		return nil, fmt.Errorf("listing serial ports: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		info := PortInfo{
			Name:        d.Name,
			Description: d.Product,
			VID:         d.VID,
			PID:         d.PID,
		}
		info.IsBaseStation = s.isBaseStation(d)
		ports = append(ports, info)
	}
	return ports, nil
}

func (s *Scanner) isBaseStation(d *enumerator.PortDetails) bool {
	marker := strings.ToLower(s.Options.VendorMarker)
	if marker != "" && strings.Contains(strings.ToLower(d.Product), marker) {
		return true
	}
	return d.IsUSB && s.Options.VendorID != "" && strings.EqualFold(d.VID, s.Options.VendorID)
}

// Connect scans for base stations and opens every match into a new link.
// Ports that fail to open are logged and skipped; zero matches yields an
// empty link.
func (s *Scanner) Connect() (*Link, error) {
	ports, err := s.Scan()
	if err != nil {
		return NewLink(s.Options.QueueDepth), err
	}

	link := NewLink(s.Options.QueueDepth)
	if s.Options.Timeout > 0 {
		link.FlushTimeout = s.Options.Timeout * time.Duration(link.depth)
	}
	for _, p := range ports {
		if !p.IsBaseStation {
			continue
		}
		port, err := s.Open(p.Name, s.Options)
		if err != nil {
			fmt.Printf("[Robot] failed to open %s: %v\n", p.Name, err)
			continue
		}
		link.Add(p.Name, port)
	}
	if link.Len() == 0 {
		fmt.Println("[Robot] no base station found, playing without hardware")
	}
	return link, nil
}
