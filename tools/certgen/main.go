// Package main generates a Certificate Authority (CA) and a server
// certificate signed by it, writing them to files under a directory
// ("certs" by default). An existing CA in that directory is reused.
package main

import (
	"crypto/x509"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atinyakov/GophPass/internal/certgen"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("certgen", flag.ContinueOnError)
	dir := fs.String("dir", "certs", "output directory")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma-separated server host names and IPs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	caCert, caKey, err := loadOrCreateCA(*dir)
	if err != nil {
		return err
	}

	var hostList []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hostList = append(hostList, h)
		}
	}
	server, err := certgen.GenerateServerCertificate(hostList, caCert, caKey)
	if err != nil {
		return fmt.Errorf("server certificate: %w", err)
	}
	if err := server.Write(*dir, "server"); err != nil {
		return err
	}

	fmt.Fprintf(out, "Certificates generated into %s\n", *dir)
	return nil
}

func loadOrCreateCA(dir string) (*x509.Certificate, any, error) {
	certPath := filepath.Join(dir, "ca.crt")
	keyPath := filepath.Join(dir, "ca.key")
	if _, err := os.Stat(certPath); err == nil {
		return certgen.LoadCACredentials(certPath, keyPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, nil, err
	}

	ca, err := certgen.GenerateCA("GophPass CA")
	if err != nil {
		return nil, nil, fmt.Errorf("ca: %w", err)
	}
	if err := ca.Write(dir, "ca"); err != nil {
		return nil, nil, err
	}
	return ca.Cert, ca.Key, nil
}
