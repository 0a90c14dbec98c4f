package forme

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// RawTerminal puts a file descriptor into raw (no-echo, no-signal) mode and
// restores it on Close. It is a side facility used by callers that drive
// the encoder directly against a real tty; nothing in the encode path
// depends on it.
type RawTerminal struct {
	fd          int
	origTermios *unix.Termios
	sigChan     chan os.Signal
	Resize      <-chan Size
	resizeChan  chan Size
}

// Size is a terminal's column/row dimensions.
type Size struct {
	Width, Height int
}

// WindowSize queries the current dimensions of fd via TIOCGWINSZ.
func WindowSize(fd int) (Size, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return Size{}, fmt.Errorf("forme: get window size: %w", err)
	}
	return Size{Width: int(ws.Col), Height: int(ws.Row)}, nil
}

// EnterRawMode saves fd's current termios and switches it to raw mode:
// no echo, no canonical line buffering, no signal generation, 8-bit
// clean. It also starts a SIGWINCH listener that publishes new sizes on
// the returned RawTerminal's Resize channel.
func EnterRawMode(fd int) (*RawTerminal, error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("forme: get termios: %w", err)
	}

	raw := *termios
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		return nil, fmt.Errorf("forme: set raw mode: %w", err)
	}

	rt := &RawTerminal{
		fd:          fd,
		origTermios: termios,
		sigChan:     make(chan os.Signal, 1),
		resizeChan:  make(chan Size, 1),
	}
	rt.Resize = rt.resizeChan
	signal.Notify(rt.sigChan, syscall.SIGWINCH)
	go rt.watchResize()
	return rt, nil
}

func (rt *RawTerminal) watchResize() {
	for range rt.sigChan {
		if sz, err := WindowSize(rt.fd); err == nil {
			select {
			case rt.resizeChan <- sz:
			default:
			}
		}
	}
}

// Close restores the original termios and stops the resize watcher.
func (rt *RawTerminal) Close() error {
	signal.Stop(rt.sigChan)
	close(rt.sigChan)
	if err := unix.IoctlSetTermios(rt.fd, ioctlSetTermios, rt.origTermios); err != nil {
		return fmt.Errorf("forme: restore termios: %w", err)
	}
	return nil
}
