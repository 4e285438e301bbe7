package parser

import "fmt"

const dmesgPattern = `^(<\d+>)?\[(?P<date>[^\]]+)\] (?P<processid>[^:]*:)?(?P<content>.*)$`

const dmesgTemplate = "DATE {processid} {cleanContent}"

// registry is built once at startup and never mutated.
var registry = []*Descriptor{
	MustDescriptor(Definition{
		Name:        "ulogcat",
		Description: "ulogcat -v long",
		Pattern:     `^(?P<date>\d\d-\d\d \d\d:\d\d:\d\d.\d\d\d) (?P<level>.) (?P<tag>[^( ]*)\s*\((?:(?P<processname>.*)-(?P<processid>.*)/)?(?P<threadname>[^/]*)-(?P<threadid>\d+)\)\s*: ?(?P<content>.*)$`,
		DateGrammar: "%m-%d %H:%M:%S.%f",
		Template:    "DATE {level} {tag} ({processname}-PID/{threadname}-TID): {cleanContent}",
		Examples: []string{
			"03-23 15:39:00.412 I SENSORSSVC  (aap-4752/AndroidAutoMsg-5000)   : Activate driver distraction restrictions with mask 0x0",
			"03-23 15:39:00.412 I             (aap-4752/readerThread-6272)     : Phone reported protocol version 1.7",
			"03-23 15:39:00.404 I DISPMAN     (display-focus-m-1577)           : onRequireInputCategory request from 'aap'",
			"03-24 08:39:18.608 I             (debug-logpacka-2055/debug-logpacka-2088): logpackager-ulogcat-stream-plugin: Recording is stopped",
		},
	}),
	MustDescriptor(Definition{
		Name:        "ulogcat_short",
		Description: "ulogcat",
		Pattern:     `^(?P<level>.) (?P<tag>[^( ]*)\s*\((?P<processname>[^)]*)\)\s*: ?(?P<content>.*)$`,
		Template:    "{level} {tag} ({processname}): {cleanContent}",
		Examples: []string{
			"N boxinit     (boxinit)                        : starting 'sensors-man'",
			"N SENSORS     (sensors-manager)                : Sensor Manager starting (compiled from v42.1.1 on the Jan  2 2023 at 13:43:15)",
			"I BAGADBACK   (sensors-manager)                : notifyConnStatus: Server connected",
		},
	}),
	MustDescriptor(Definition{
		Name:        "logcat",
		Description: "logcat",
		Pattern:     `^(?P<date>\d\d-\d\d \d\d:\d\d:\d\d.\d\d\d)\s+(?P<processid>\d+)\s+(?P<threadid>\d+)\s+(?P<level>.)\s+(?P<tag>[^:]*):(?P<content>.*)$`,
		DateGrammar: "%m-%d %H:%M:%S.%f",
		Template:    "DATE PID TID {level} {tag} {cleanContent}",
		Examples: []string{
			"03-24 08:36:15.304  4688  5002 D MainThread: Send DriverDistraction: 0",
			"03-24 08:36:15.306  4688  5002 I MainThread: Request type: PopUp",
			"03-24 08:36:15.308  4451  4451 I VehiclePropertyService: onChangeEvent id = 555745548",
			"03-24 08:36:15.308  4451  4451 D VehiclePropertyService: onChangeEvent: property ignored",
		},
	}),
	MustDescriptor(Definition{
		Name:        "dmesg",
		Description: "dmesg",
		Pattern:     dmesgPattern,
		Template:    dmesgTemplate,
		Examples: []string{
			"[43189.299397] usb 1-4: new high-speed USB device number 27 using xhci_hcd",
			"[43189.460250] usb 1-4: New USB device strings: Mfr=1, Product=2, SerialNumber=3",
			"[43189.460255] usb 1-4: Product: USB download gadget",
			"[43288.264615] usb 1-4: USB disconnect, device number 27",
			"[    4.849161] hub 3-0:1.0: [INFO][USB] 1 port detected",
			"[   13.118810] p2p is supported",
			"[15537.298409] [UFW BLOCK] IN=wlp0s20f3 OUT= MAC=f4:4e:e3:a8:63:1c:bc:05:df:df:3d:dd:08:00 SRC=192.168.1.30 DST=192.168.1.45 LEN=522 TOS=0x00 PREC=0x00 TTL=64",
		},
	}),
	MustDescriptor(Definition{
		Name:        "dmesg_humantime",
		Description: "dmesg -T",
		Pattern:     dmesgPattern,
		DateGrammar: "%a %b %d %H:%M:%S %Y",
		Template:    dmesgTemplate,
		Examples: []string{
			"[Fri May 12 15:41:55 2023] CFG80211-INFO) wl_print_event_data : event_type (5), ifidx: 0 bssidx: 0 status:0 reason:7",
			"[Fri May 12 15:41:55 2023] CFG80211-INFO) wl_notify_connect_status_ap : [wlan0] Mode AP/GO. Event:5 status:0 reason:7",
			"[Fri May 12 15:41:55 2023] CFG80211-INFO) wl_notify_connect_status_ap : [wlan0] del sta event for 4e:37:29:ae:b2:0d",
		},
	}),
	MustDescriptor(Definition{
		Name:        "dmesg_raw",
		Description: "dmesg -r",
		Pattern:     dmesgPattern,
		Template:    dmesgTemplate,
		Examples: []string{
			"<6>[  218.824860] CFG80211-INFO) wl_cfg80211_change_station : [wlan_oem0] WLC_SCB_DEAUTHORIZE a6:f9:fc:74:da:e4",
			"<4>[  218.825103] ETHER_TYPE_802_1X[wlan_oem0] [TX]: EAPOL Packet, 4-way handshake, M1 TX_PKTHASH:0x0 TX_PKT_FATE:N/A",
			"<4>[  218.845061] ETHER_TYPE_802_1X[wlan_oem0] [RX]: EAPOL Packet, 4-way handshake, M2",
			"<4>[  218.846470] ETHER_TYPE_802_1X[wlan_oem0] [TX]: EAPOL Packet, 4-way handshake, M3 TX_PKTHASH:0x0 TX_PKT_FATE:N/A",
			"<4>[  218.849981] ETHER_TYPE_802_1X[wlan_oem0] [RX]: EAPOL Packet, 4-way handshake, M4",
			"<4>[15779.293768] [UFW BLOCK] IN=wlp0s20f3 OUT= MAC=f4:4e:e3:a8:63:1c:bc:05:df:df:3d:dd:08:00 SRC=192.168.1.30",
		},
	}),
	MustDescriptor(Definition{
		Name:        "jenkins",
		Description: "Jenkins console output",
		Pattern:     `^\[(?P<date>[0-9TZ:.-]*)\](?P<progress> \[\s*\d+% \d+/\d+\])? ?(?P<content>.*)$`,
		DateGrammar: "%Y-%m-%dT%H:%M:%S.%fZ",
		// Raw content: build progress lines carry nothing worth redacting.
		Template: "DATE {content}",
		Examples: []string{
			"[2023-04-20T10:48:36.473Z] TARGET_BUILD_TYPE=release",
			"[2023-04-20T13:46:18.263Z] [ 91% 1805/1973] //external/llvm/lib/Transforms/Vectorize:libLLVMVectorize clang++ BBVectorize.cpp [windows]",
		},
	}),
	MustDescriptor(Definition{
		Name:        "journalctl",
		Description: "journalctl (French locale)",
		Pattern:     `^(?P<date>.* \d+ \d+:\d+:\d+) (?P<hostname>.*) (?P<processname>.*)\[(?P<processid>\d+)\]: (?P<content>.*)$`,
		DateGrammar: "%b %d %H:%M:%S",
		DateLocale:  "fr_FR.UTF-8",
		Template:    "DATE {hostname} {processname} {processid} {cleanContent}",
		Examples: []string{
			"juil. 26 16:21:56 hostname.ls.ege.ds tracker-store[2124436]: OK",
			"juil. 26 16:21:56 hostname.ls.ege.ds systemd[4007]: tracker-store.service: Succeeded.",
			"juil. 26 16:23:30 hostname.ls.ege.ds gnome-shell[4356]: Removing a network device that was not added",
			"nov. 06 14:13:43 hostname.ls.ege.ds systemd[4676]: Started Tracker metadata database store and lookup manager.",
			"nov. 06 14:14:13 hostname.ls.ege.ds tracker-store[762255]: OK",
			"nov. 06 14:14:13 hostname.ls.ege.ds systemd[4676]: tracker-store.service: Succeeded.",
		},
	}),
	MustDescriptor(Definition{
		Name:        "syslog",
		Description: "syslog (/var/log/syslog)",
		Pattern:     `^(?P<date>[^ ]* +\d+ \d+:\d+:\d+) (?P<hostname>[^ ]+) (?P<processname>[^ :\[]+)(?:\[(?P<processid>\d+)\])?:? ?(?P<content>.*)$`,
		DateGrammar: "%b %d %H:%M:%S",
		Template:    "DATE {hostname} {processname} {cleanContent}",
		Examples: []string{
			"Nov  6 17:10:50 hostname cr-edr-activeprobe 4243 INFO 2024-11-06_16:10:48 ServerPublishBufferSink.cpp.o:211 1 items, PublishService-ServerPublishBufferSink, 168 bytes, Seq 2752",
			"Nov  7 09:06:15 hostname sudo Nov  7 09:06:12 2024 : user : HOST=HOSTNAME : TTY=tty2 ;",
			"Nov  7 09:06:15 hostname kernel: [  752.923011] Lockdown: systemd-logind: hibernation is restricted;7",
			"Nov  6 17:10:53 hostname systemd[4676]: tracker-extract.service: Succeeded.",
			"Nov  6 17:10:53 hostname systemd[1]: Starting Refresh fwupd metadata and update motd...",
			"Nov  6 17:10:53 hostname systemd[1]: fwupd-refresh.service: Succeeded.",
		},
	}),
	MustDescriptor(Definition{
		Name:        "xxx",
		Description: "any text, passed through unchanged",
		Pattern:     `^(?P<content>.*)$`,
		Template:    "{content}",
	}),
}

var byName = func() map[string]*Descriptor {
	m := make(map[string]*Descriptor, len(registry))
	for _, d := range registry {
		if _, dup := m[d.name]; dup {
			panic(fmt.Sprintf("duplicate format %q", d.name))
		}
		m[d.name] = d
	}
	return m
}()

// DefaultFormat is used when no format is configured.
const DefaultFormat = "ulogcat"

// Lookup returns the registered descriptor with the given name.
func Lookup(name string) (*Descriptor, error) {
	d, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownFormat, name, Names())
	}
	return d, nil
}

// All returns every registered descriptor in registration order.
func All() []*Descriptor {
	return append([]*Descriptor(nil), registry...)
}

// Names returns the registered format names in registration order.
func Names() []string {
	names := make([]string, len(registry))
	for i, d := range registry {
		names[i] = d.name
	}
	return names
}
