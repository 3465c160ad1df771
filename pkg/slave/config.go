package slave

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dayrise/dayrise.go/pkg/display"
	"github.com/dayrise/dayrise.go/pkg/env"
	"github.com/dayrise/dayrise.go/pkg/epd"
	"github.com/dayrise/dayrise.go/pkg/epd/virtual"
	"github.com/dayrise/dayrise.go/pkg/epd/waveshare"
	"github.com/dayrise/dayrise.go/pkg/framework"
	"github.com/dayrise/dayrise.go/pkg/link"
	linkmqtt "github.com/dayrise/dayrise.go/pkg/link/mqtt"
	"github.com/dayrise/dayrise.go/pkg/link/uart"
	"github.com/dayrise/dayrise.go/pkg/link/websocket"
	mq "github.com/dayrise/dayrise.go/pkg/mqtt"
	"github.com/dayrise/dayrise.go/pkg/paint"
	"github.com/dayrise/dayrise.go/pkg/telemetry"
)

// Panel geometry defaults.
const (
	DefaultWidth    = 240
	DefaultHeight   = 360
	DefaultRotation = display.Rotate270
)

// Drivers.
const (
	DriverWaveshare = "waveshare"
	DriverVirtual   = "virtual"
)

// Config configures a Node.
type Config struct {
	// Port is the serial port of the master link, empty disables it.
	Port string
	Baud int

	// Driver is DriverWaveshare or DriverVirtual.
	Driver string
	// SPIPort is the SPI port of the waveshare HAT, empty for the first one.
	SPIPort string
	// VirtualDir receives frame.png from the virtual panel, empty disables it.
	VirtualDir string

	// Width and Height are the panel size in panel layout. Zero takes the
	// size of the panel, or the defaults if the driver does not report one.
	Width    int
	Height   int
	Rotation int

	Interval   time.Duration
	SplashHold time.Duration

	// MQTTBrokerURL enables the MQTT link and telemetry.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	DeviceID      string

	// WebsocketListen enables the websocket link, e.g. :8080.
	WebsocketListen string

	// MaxRecordSize bounds partial records on every link.
	MaxRecordSize int
}

var defaultConfig = Config{
	Baud:          uart.DefaultBaudRate,
	Driver:        DriverWaveshare,
	Rotation:      int(DefaultRotation),
	Interval:      framework.DefaultInterval,
	SplashHold:    2 * time.Second,
	MaxRecordSize: link.DefaultMaxRecordSize,
}

func init() {
	if val := os.Getenv("DAYRISE_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("DAYRISE_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			defaultConfig.Baud = baud
		}
	}
	if val := os.Getenv("DAYRISE_DRIVER"); val != "" {
		defaultConfig.Driver = val
	}
	if val := os.Getenv("DAYRISE_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("DAYRISE_DEVICE_ID"); val != "" {
		defaultConfig.DeviceID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port of the master link")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial baud rate")
	flag.StringVar(&defaultConfig.Driver, "driver", defaultConfig.Driver, "Panel driver: waveshare or virtual")
	flag.StringVar(&defaultConfig.SPIPort, "spi", defaultConfig.SPIPort, "SPI port of the panel")
	flag.StringVar(&defaultConfig.VirtualDir, "virtual-dir", defaultConfig.VirtualDir, "Directory receiving frames of the virtual panel")
	flag.IntVar(&defaultConfig.Width, "width", defaultConfig.Width, "Panel width in pixels, 0 for the panel size")
	flag.IntVar(&defaultConfig.Height, "height", defaultConfig.Height, "Panel height in pixels, 0 for the panel size")
	flag.IntVar(&defaultConfig.Rotation, "rotation", defaultConfig.Rotation, "Rotation: 0, 90, 180 or 270")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Display cycle period")
	flag.DurationVar(&defaultConfig.SplashHold, "splash-hold", defaultConfig.SplashHold, "How long the splash screen is shown")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.StringVar(&defaultConfig.DeviceID, "id", defaultConfig.DeviceID, "Device ID, default is derived from the machine id")
	flag.StringVar(&defaultConfig.WebsocketListen, "ws", defaultConfig.WebsocketListen, "Websocket link listen address")
	flag.IntVar(&defaultConfig.MaxRecordSize, "max-record", defaultConfig.MaxRecordSize, "Longest accepted record in bytes")
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Device returns the device ID.
func (c *Config) Device() string {
	if c.DeviceID == "" {
		c.DeviceID = env.DeviceID()
	}
	return c.DeviceID
}

// NewDriver opens the panel driver.
func (c *Config) NewDriver() (epd.Driver, error) {
	switch c.Driver {
	case DriverVirtual:
		return virtual.New(c.VirtualDir), nil
	case DriverWaveshare:
		return waveshare.Open(c.SPIPort)
	}
	return nil, fmt.Errorf("unknown driver %q", c.Driver)
}

// NewNode creates a Node from config.
func (c *Config) NewNode() (*Node, error) {
	if !display.Rotation(c.Rotation).Valid() {
		return nil, fmt.Errorf("%w: rotation %d", display.ErrInvalidGeometry, c.Rotation)
	}
	text, err := paint.NewText()
	if err != nil {
		return nil, err
	}
	mux := link.NewMux()
	var links []string

	if c.Port != "" {
		src, err := uart.NewSource(c.Port, c.Baud)
		if err != nil {
			return nil, err
		}
		src.SetMaxRecordSize(c.MaxRecordSize)
		mux.Add(src)
		links = append(links, "uart:"+c.Port)
	}
	if c.WebsocketListen != "" {
		src := websocket.NewSource(c.WebsocketListen)
		src.SetMaxRecordSize(c.MaxRecordSize)
		mux.Add(src)
		links = append(links, "websocket:"+c.WebsocketListen)
	}
	var queue *mq.Queue
	if c.MQTTBrokerURL != "" {
		opts, topicPrefix, err := mq.ClientOptionsFromURL(c.MQTTBrokerURL)
		if err != nil {
			return nil, fmt.Errorf("mqtt url: %w", err)
		}
		if opts.ClientID == "" {
			opts.SetClientID("dayrise:" + c.Device())
		}
		telemetry.SetWill(opts, topicPrefix, c.Device())
		queue = mq.NewQueue(opts, topicPrefix)
		src := linkmqtt.NewSource(queue, c.Device())
		src.SetMaxRecordSize(c.MaxRecordSize)
		mux.Add(src)
		links = append(links, "mqtt:"+topicPrefix+src.Topic)
	}
	if mux.Len() == 0 {
		return nil, fmt.Errorf("no link configured, set a serial port, MQTT broker or websocket address")
	}

	driver, err := c.NewDriver()
	if err != nil {
		return nil, err
	}
	node := NewNode(mux, driver, display.NewRenderer(text, paint.Shapes{}))
	if closer, ok := driver.(io.Closer); ok {
		node.closers = append(node.closers, closer)
	}
	if err := c.setupDisplay(node); err != nil {
		node.close()
		return nil, err
	}
	node.Interval, node.SplashHold = c.Interval, c.SplashHold
	if queue != nil {
		pub := telemetry.NewPublisher(queue, telemetry.NodeMeta{
			Device:   c.Device(),
			Driver:   c.Driver,
			Width:    node.Width,
			Height:   node.Height,
			Rotation: c.Rotation,
			Links:    links,
		})
		node.Reporter = pub
		node.adders = append(node.adders, queueAdder{queue})
	}
	return node, nil
}

// PanelGeometry returns the panel size for driver. A configured size
// must match the size a fixed size panel reports.
func (c *Config) PanelGeometry(driver epd.Driver) (width, height int, err error) {
	width, height = c.Width, c.Height
	bounder, ok := driver.(epd.Bounder)
	if !ok {
		if width == 0 {
			width = DefaultWidth
		}
		if height == 0 {
			height = DefaultHeight
		}
		return width, height, nil
	}
	size := bounder.Bounds().Size()
	if width == 0 {
		width = size.X
	}
	if height == 0 {
		height = size.Y
	}
	if width != size.X || height != size.Y {
		return 0, 0, fmt.Errorf("%w: configured %dx%d, panel is %dx%d",
			display.ErrInvalidGeometry, width, height, size.X, size.Y)
	}
	return width, height, nil
}

// setupDisplay sizes the node for the panel and fits the layout
// to the logical height.
func (c *Config) setupDisplay(node *Node) error {
	width, height, err := c.PanelGeometry(node.Driver)
	if err != nil {
		return err
	}
	rotation := display.Rotation(c.Rotation)
	node.Width, node.Height, node.Rotation = width, height, rotation
	logicalHeight := height
	if rotation == display.Rotate90 || rotation == display.Rotate270 {
		logicalHeight = width
	}
	node.Renderer.Layout = node.Renderer.Layout.Fit(logicalHeight, paint.LargeSize)
	return nil
}

// MustNewNode creates a Node and fails on error.
func (c *Config) MustNewNode() *Node {
	node, err := c.NewNode()
	if err != nil {
		log.Fatalln(err)
	}
	return node
}

type queueAdder struct {
	queue *mq.Queue
}

func (a queueAdder) AddToLoop(l *framework.Loop) {
	l.AddRunnable(framework.NamedRun("mqtt", a.queue))
}
