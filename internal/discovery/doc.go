// Package discovery provides mDNS-based discovery for KTG gimbals.
//
// This package implements multicast DNS (mDNS) service discovery to locate
// gimbals on the local network. The camera module of a gimbal advertises its
// RTSP video stream using the "_rtsp._tcp" service type; the TCP control port
// is fixed and derived from the discovered address.
//
// # Discovery Process
//
// The discovery process works as follows:
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for RTSP service advertisements
//  3. Filters responses to identify KTG units by hostname
//  4. Collects device information (hostname, IP, stream port, TXT metadata)
//  5. Returns a list of discovered devices after the timeout period
//
// # Usage Example
//
//	// Discover gimbals with 10-second timeout
//	devices, err := discovery.ScanForDevices(10 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Print discovered gimbals
//	for _, device := range devices {
//	    fmt.Printf("Found: %s control=%s stream=%s\n",
//	        device.Model, device.ControlAddr(), device.StreamURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// This package is safe for concurrent use. Multiple discovery sessions can run
// simultaneously without interference.
package discovery
