// Package sh is the interactive shell of the master simulator.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/dayrise/dayrise.go/pkg/link/uart"
	"github.com/dayrise/dayrise.go/pkg/telemetry"
	"github.com/dayrise/dayrise.go/pkg/wire"
)

// Config selects the target the shell connects to at start.
type Config struct {
	Port          string
	Baud          int
	MQTTBrokerURL string
	Device        string
	WebsocketURL  string
}

var defaultConfig = Config{
	Baud: uart.DefaultBaudRate,
}

func init() {
	if val := os.Getenv("DAYRISE_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("DAYRISE_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("DAYRISE_DEVICE_ID"); val != "" {
		defaultConfig.Device = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port to the display node")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial baud rate")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.StringVar(&defaultConfig.Device, "id", defaultConfig.Device, "Device ID of the display node on MQTT")
	flag.StringVar(&defaultConfig.WebsocketURL, "ws", defaultConfig.WebsocketURL, "Websocket link URL, e.g. ws://host:8080/link")
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// OpenTarget opens the configured target, stdout if none.
func (c *Config) OpenTarget() (Target, error) {
	switch {
	case c.Port != "":
		return OpenSerial(c.Port, c.Baud)
	case c.WebsocketURL != "":
		return OpenWebsocket(c.WebsocketURL)
	case c.MQTTBrokerURL != "" && c.Device != "":
		return OpenMQTT(c.MQTTBrokerURL, c.Device)
	}
	return Stdout(), nil
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *Config
	Target Target
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
		&PortsCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a target.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Target == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// Use replaces the current target.
func (s *Shell) Use(t Target) {
	s.Disconnect()
	s.Target = t
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", t.Name()))
}

// Disconnect closes the current target.
func (s *Shell) Disconnect() {
	if s.Target != nil {
		s.Target.Close()
		s.Target = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Send sends a command to the target and prints the record.
func Send(c *ishell.Context, cmd wire.Command) error {
	s := ShellFrom(c)
	if err := s.Target.Send(cmd); err != nil {
		c.Err(err)
		return err
	}
	if s.Interactive {
		c.Printf("sent %q\n", string(cmd.Record()))
	}
	return nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	target, err := s.Config.OpenTarget()
	if err != nil {
		log.Fatalln(err)
	}
	s.Use(target)
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// FormatMeta prints NodeMeta into friendly string for display.
func FormatMeta(meta telemetry.NodeMeta) string {
	return fmt.Sprintf("%s: %s %dx%d@%d [%s]", meta.Device, meta.Driver,
		meta.Width, meta.Height, meta.Rotation, strings.Join(meta.Links, " "))
}

var (
	// DiscoverCmd lists display nodes on MQTT.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "[BROKER-URL]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			brokerURL := s.Config.MQTTBrokerURL
			if len(c.Args) > 0 {
				brokerURL = c.Args[0]
			}
			if brokerURL == "" {
				c.Err(fmt.Errorf("MQTT broker URL required"))
				return
			}
			metas, err := Discover(context.Background(), brokerURL, DefaultDiscoverTimeout)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				out, err := json.Marshal(metas)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(metas) == 0 {
				c.Println("No display nodes found")
				return
			}
			for _, meta := range metas {
				c.Println(FormatMeta(meta))
			}
		},
	}

	// ConnectCmd switches the target.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "serial PORT [BAUD] | mqtt DEVICE [BROKER-URL] | ws URL | stdout",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			target, err := openTarget(s.Config, c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			s.Use(target)
		},
	}

	// DisconnectCmd closes the target.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name: "ports",
		Help: "",
		Func: func(c *ishell.Context) {
			ports, err := uart.Ports()
			if err != nil {
				c.Err(err)
				return
			}
			for _, port := range ports {
				c.Println(port)
			}
		},
	}
)

func openTarget(conf *Config, args []string) (Target, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("target kind required")
	}
	switch args[0] {
	case "stdout":
		return Stdout(), nil
	case "serial":
		if len(args) < 2 {
			return nil, fmt.Errorf("PORT required")
		}
		baud := conf.Baud
		if len(args) > 2 {
			val, err := strconv.Atoi(args[2])
			if err != nil {
				return nil, fmt.Errorf("invalid BAUD: %v", err)
			}
			baud = val
		}
		return OpenSerial(args[1], baud)
	case "mqtt":
		if len(args) < 2 {
			return nil, fmt.Errorf("DEVICE required")
		}
		brokerURL := conf.MQTTBrokerURL
		if len(args) > 2 {
			brokerURL = args[2]
		}
		return OpenMQTT(brokerURL, args[1])
	case "ws":
		if len(args) < 2 {
			return nil, fmt.Errorf("URL required")
		}
		return OpenWebsocket(args[1])
	}
	return nil, fmt.Errorf("unknown target %q", args[0])
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(NewConfig()).Run(flag.Args()...)
}
