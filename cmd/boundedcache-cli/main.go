// Command boundedcache-cli is a line-oriented REPL over stdin for
// talking to a boundedcache server, translated from the reference
// client-example binary: each line is either "get <key>" or
// "put <key> <value>"; anything else is rejected client-side.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/boundedcache/boundedcache/client"
	"github.com/boundedcache/boundedcache/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		return err
	}

	defaultAddress, defaultPort := splitHostPort(cfg.Address)

	var address, port string
	pflag.StringVarP(&address, "address", "a", defaultAddress, "ip address to connect to")
	pflag.StringVarP(&port, "port", "p", defaultPort, "port to connect to")
	pflag.Parse()

	c := client.New(address + ":" + port)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		processLine(scanner.Text(), c)
	}
	return scanner.Err()
}

// splitHostPort breaks a "host:port" config value into the separate
// flag defaults the Rust reference's -a/-p arguments expect; an
// unparseable value falls back to the reference's own defaults.
func splitHostPort(addr string) (host, port string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "127.0.0.1", "8080"
	}
	return host, port
}

func processLine(line string, c *client.Client) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	switch words[0] {
	case "get":
		if len(words) != 2 {
			fmt.Println("invalid command: `get <key>`")
			return
		}
		result, err := c.Get(client.NewBytesItem(words[1], nil))
		if err != nil {
			if errors.Is(err, client.ErrNotFound) {
				fmt.Printf("Key: %s not found\n", words[1])
				return
			}
			fmt.Println("Error:", err)
			return
		}
		fmt.Printf("Key: %s, Value: %s\n", words[1], result.Value())

	case "put":
		if len(words) != 3 {
			fmt.Println("invalid command: `put <key> <value>`")
			return
		}
		_, err := c.Put(client.NewBytesItem(words[1], []byte(words[2])))
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Printf("Key: %s cached\n", words[1])

	default:
		fmt.Println("invalid command: `put <key> <value>` or `get <key>`")
	}
}
