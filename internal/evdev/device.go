package evdev

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/banshee-data/gestured/internal/monitoring"
	"github.com/banshee-data/gestured/internal/units"
)

// AbsInfo mirrors struct input_absinfo from linux/input.h. Resolution is
// reported in units per millimeter for touch position axes.
type AbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// ioctl request encoding (the Linux _IOC macro, read direction).
const (
	iocRead      = 2
	iocSizeShift = 16
	iocDirShift  = 30
	iocTypeShift = 8

	evIoctlType = 'E'
	maxNameSize = 256
)

func iocR(nr, size uintptr) uintptr {
	return iocRead<<iocDirShift | size<<iocSizeShift | evIoctlType<<iocTypeShift | nr
}

// eviocgabs builds the EVIOCGABS(abs) request for an axis code.
func eviocgabs(code uint16) uintptr {
	return iocR(0x40+uintptr(code), unsafe.Sizeof(AbsInfo{}))
}

// eviocgname builds the EVIOCGNAME(len) request.
func eviocgname(size uintptr) uintptr {
	return iocR(0x06, size)
}

// Device is an open evdev device node. It implements Source by decoding
// fixed-size input_event records from the file in batches.
type Device struct {
	f    *os.File
	name string

	// read-ahead buffer of undelivered events
	pending []Event
	raw     [eventSize * 64]byte
}

// Open opens the input device at path for reading.
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open input device %s: %w", path, err)
	}

	d := &Device{f: f}
	d.name, err = d.readName()
	if err != nil {
		// Name is informational only; a device that refuses EVIOCGNAME can
		// still deliver events.
		monitoring.Logf("evdev: could not read device name for %s: %v", path, err)
		d.name = "unknown"
	}
	return d, nil
}

// Name returns the device name reported by the kernel.
func (d *Device) Name() string { return d.name }

func (d *Device) readName() (string, error) {
	var buf [maxNameSize]byte
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.f.Fd(), eviocgname(maxNameSize), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "", errno
	}
	return strings.TrimRight(string(buf[:]), "\x00"), nil
}

// AbsInfo queries the range and resolution of an absolute axis.
func (d *Device) AbsInfo(code uint16) (AbsInfo, error) {
	var info AbsInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.f.Fd(), eviocgabs(code), uintptr(unsafe.Pointer(&info)))
	if errno != 0 {
		return AbsInfo{}, fmt.Errorf("EVIOCGABS(0x%x) failed: %w", code, errno)
	}
	return info, nil
}

// Resolution derives millimeter conversion constants from the device's
// reported position-axis resolutions. Axes that report no resolution fall
// back to the package defaults.
func (d *Device) Resolution() units.Resolution {
	res := units.Resolution{}
	if info, err := d.AbsInfo(AbsMTPositionX); err == nil && info.Resolution > 0 {
		res.UnitsPerMMX = float64(info.Resolution)
	}
	if info, err := d.AbsInfo(AbsMTPositionY); err == nil && info.Resolution > 0 {
		res.UnitsPerMMY = float64(info.Resolution)
	}
	if res.UnitsPerMMX == 0 || res.UnitsPerMMY == 0 {
		def := units.DefaultResolution()
		if res.UnitsPerMMX == 0 {
			res.UnitsPerMMX = def.UnitsPerMMX
		}
		if res.UnitsPerMMY == 0 {
			res.UnitsPerMMY = def.UnitsPerMMY
		}
	}
	return res
}

// SupportsMultiTouch reports whether the device exposes the MT slot axis.
func (d *Device) SupportsMultiTouch() bool {
	info, err := d.AbsInfo(AbsMTSlot)
	return err == nil && info.Maximum > 0
}

// Next returns the next event in device order, reading another batch from
// the kernel when the read-ahead buffer is exhausted. It blocks until
// events arrive or the read fails.
func (d *Device) Next() (Event, error) {
	for len(d.pending) == 0 {
		n, err := d.f.Read(d.raw[:])
		if err != nil {
			return Event{}, err
		}
		for off := 0; off+eventSize <= n; off += eventSize {
			ev, err := decodeEvent(d.raw[off : off+eventSize])
			if err != nil {
				return Event{}, err
			}
			d.pending = append(d.pending, ev)
		}
	}
	ev := d.pending[0]
	d.pending = d.pending[1:]
	return ev, nil
}

// Close closes the underlying device node.
func (d *Device) Close() error {
	return d.f.Close()
}

// FindDevice scans /dev/input for an event device whose name contains
// pattern and returns its path.
func FindDevice(pattern string) (string, error) {
	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return "", err
	}
	for _, path := range matches {
		d, err := Open(path)
		if err != nil {
			continue // permission or transient error; keep scanning
		}
		name := d.Name()
		d.Close()
		if strings.Contains(name, pattern) {
			monitoring.Logf("evdev: found device %q at %s", name, path)
			return path, nil
		}
	}
	return "", fmt.Errorf("no input device matching %q found under /dev/input", pattern)
}
