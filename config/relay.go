package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ICEServer is a STUN or TURN server handed to every peer connection
type ICEServer struct {
	URLs       []string
	Username   string
	Credential string
}

// RelayConfig contains the peer relay configuration
type RelayConfig struct {
	// Signaling broker (PeerJS protocol)
	SignalHost   string
	SignalPort   int
	SignalPath   string
	SignalKey    string
	SignalSecure bool

	ICEServers []ICEServer

	FrameRate    int    // canvas capture rate
	JPEGQuality  int    // 1-100
	DataLabel    string // label of the data channel opened before the call
	MaxRTPBytes  int    // payload bytes per RTP packet
	HeartbeatSec int
}

// Relay is the global relay configuration
var Relay RelayConfig

func init() {
	Relay = RelayConfig{
		SignalHost:   "0.peerjs.com",
		SignalPort:   443,
		SignalPath:   "/",
		SignalKey:    "peerjs",
		SignalSecure: true,
		ICEServers: []ICEServer{
			{URLs: []string{"stun:stun.l.google.com:19302"}},
		},
		FrameRate:    30,
		JPEGQuality:  70,
		DataLabel:    "joy-ctrl",
		MaxRTPBytes:  1100,
		HeartbeatSec: 5,
	}
}

// LoadEnv reads an optional .env file and applies JOYCTRL_* overrides to the
// relay configuration. A missing .env file is not an error.
func LoadEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if v := os.Getenv("JOYCTRL_SIGNAL_HOST"); v != "" {
		Relay.SignalHost = v
	}
	if v := os.Getenv("JOYCTRL_SIGNAL_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("JOYCTRL_SIGNAL_PORT must be a number")
		}
		Relay.SignalPort = port
	}
	if v := os.Getenv("JOYCTRL_SIGNAL_PATH"); v != "" {
		Relay.SignalPath = v
	}
	if v := os.Getenv("JOYCTRL_SIGNAL_KEY"); v != "" {
		Relay.SignalKey = v
	}
	if v := os.Getenv("JOYCTRL_SIGNAL_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New("JOYCTRL_SIGNAL_SECURE must be a boolean")
		}
		Relay.SignalSecure = secure
	}
	if v := os.Getenv("JOYCTRL_STUN_URL"); v != "" {
		Relay.ICEServers = []ICEServer{{URLs: []string{v}}}
	}
	if v := os.Getenv("JOYCTRL_TURN_URL"); v != "" {
		Relay.ICEServers = append(Relay.ICEServers, ICEServer{
			URLs:       []string{v},
			Username:   os.Getenv("JOYCTRL_TURN_USER"),
			Credential: os.Getenv("JOYCTRL_TURN_PASS"),
		})
	}

	log.Printf("[config] signaling %s:%d%s, %d ICE server(s)",
		Relay.SignalHost, Relay.SignalPort, Relay.SignalPath, len(Relay.ICEServers))
	return nil
}
