package transport

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/melih-ucgun/shopsnap/internal/config"
	"github.com/melih-ucgun/shopsnap/internal/core"
)

// SSHTransport runs commands on a remote host over SSH.
type SSHTransport struct {
	client *ssh.Client
	config config.Host
	fs     *SFTPFS
}

func NewSSHTransport(ctx context.Context, host config.Host) (*SSHTransport, error) {
	var authMethods []ssh.AuthMethod

	if host.SSHKeyPath != "" {
		key, err := os.ReadFile(host.SSHKeyPath)
		if err != nil {
			return nil, fmt.Errorf("reading ssh key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parsing ssh key: %w", err)
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	} else {
		authMethods = append(authMethods, ssh.Password(host.Password))
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if host.KnownHosts != "" {
		cb, err := knownhosts.New(host.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("loading known_hosts: %w", err)
		}
		hostKeyCallback = cb
	} else {
		slog.Warn("host key verification disabled", "host", host.Name)
	}

	sshConfig := &ssh.ClientConfig{
		User:            host.User,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         10 * time.Second,
	}

	addr := fmt.Sprintf("%s:%d", host.Address, host.Port)
	client, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("ssh connection error (%s): %w", host.Name, err)
	}

	t := &SSHTransport{client: client, config: host}
	t.fs = &SFTPFS{client: client}
	return t, nil
}

func (t *SSHTransport) Close() error {
	var firstErr error
	if t.fs != nil {
		firstErr = t.fs.Close()
	}
	if t.client != nil {
		if err := t.client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Execute runs a command and returns its combined output. With
// become_method sudo the command runs under sudo, the password piped on stdin.
func (t *SSHTransport) Execute(ctx context.Context, cmd string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	session, err := t.client.NewSession()
	if err != nil {
		return "", err
	}
	defer session.Close()

	finalCmd, stdin := t.wrapCommand(cmd)
	if stdin != "" {
		session.Stdin = strings.NewReader(stdin)
	}

	out, err := session.CombinedOutput(finalCmd)
	if err != nil {
		slog.Debug("remote command failed", "host", t.config.Name, "cmd", cmd, "err", err, "out", string(out))
	}
	return strings.TrimSpace(string(out)), err
}

// wrapCommand applies the become method. The password never appears on the command line.
func (t *SSHTransport) wrapCommand(cmd string) (string, string) {
	if t.config.BecomeMethod != "sudo" {
		return cmd, ""
	}
	if t.config.Password == "" {
		return "sudo -n sh -c " + core.ShellQuote(cmd), ""
	}
	// -S: read password from stdin, -p '': no prompt
	return "sudo -S -p '' sh -c " + core.ShellQuote(cmd), t.config.Password + "\n"
}

// GetFileSystem returns the SFTP filesystem. With become_method sudo the
// mutating calls run as commands so they get the same privileges as btrfs.
func (t *SSHTransport) GetFileSystem() core.FileSystem {
	if t.config.BecomeMethod == "sudo" {
		return &BecomeFS{SFTPFS: t.fs, Run: t.Execute}
	}
	return t.fs
}
