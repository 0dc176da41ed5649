// Package sandbox executes external tools inside locked-down containers.
package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	containerTypes "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-units"

	"github.com/kmorwood/lintcage/internal/config"
)

// Invoker runs sandboxed tool containers against a fixed workspace root.
type Invoker struct {
	client       *client.Client
	workspace    string
	pullOnDemand bool
}

// NewInvoker creates an invoker bound to the configured workspace root.
func NewInvoker(cfg *config.Config) (*Invoker, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	// Verify connection
	if _, err := cli.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to Docker: %w", err)
	}

	return &Invoker{
		client:       cli,
		workspace:    cfg.Root,
		pullOnDemand: cfg.Registry.PullOnDemand,
	}, nil
}

// Close closes the Docker client
func (inv *Invoker) Close() error {
	return inv.client.Close()
}

// ImageExists checks if an image exists locally
func (inv *Invoker) ImageExists(ctx context.Context, ref string) (bool, error) {
	_, _, err := inv.client.ImageInspectWithRaw(ctx, ref)
	if err != nil {
		if client.IsErrNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsureAvailable pulls the image if it is not present locally. This is the
// explicit install step; Invoke itself never pulls unless pull-on-demand is
// enabled in the configuration.
func (inv *Invoker) EnsureAvailable(ctx context.Context, ref string) error {
	exists, err := inv.ImageExists(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to inspect image %q: %w", ref, err)
	}
	if exists {
		return nil
	}
	return inv.pull(ctx, ref)
}

func (inv *Invoker) pull(ctx context.Context, ref string) error {
	fmt.Fprintf(os.Stderr, "Pulling %s...\n", ref)
	reader, err := inv.client.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %q: %w", ref, err)
	}
	defer reader.Close()

	// Drain the progress stream; pull completes when it ends.
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("error reading pull progress for %q: %w", ref, err)
	}
	return nil
}

// Invoke runs the command synchronously in a container with the given
// profile, appending args to the command's base arguments. The workspace is
// bind mounted at /workspace, which is also the working directory. The tool's
// exit code is returned verbatim in the Result; a non-zero exit is not an
// error at this layer.
func (inv *Invoker) Invoke(ctx context.Context, cmd Command, profile Profile, args []string) (Result, error) {
	containerConfig, hostConfig, err := buildContainerConfig(inv.workspace, cmd, profile, args)
	if err != nil {
		return Result{}, err
	}

	resp, err := inv.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, "")
	if err != nil {
		if strings.Contains(err.Error(), "No such image") {
			if !inv.pullOnDemand {
				return Result{}, fmt.Errorf("%w: %s; run 'lintcage pull' first", ErrImageUnavailable, cmd.Image)
			}
			if err := inv.pull(ctx, cmd.Image); err != nil {
				return Result{}, err
			}
			resp, err = inv.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, "")
			if err != nil {
				return Result{}, fmt.Errorf("failed to create container: %w", err)
			}
		} else {
			return Result{}, fmt.Errorf("failed to create container: %w", err)
		}
	}
	containerID := resp.ID

	defer func() {
		_ = inv.client.ContainerRemove(context.Background(), containerID, containerTypes.RemoveOptions{
			Force: true,
		})
	}()

	if err := inv.client.ContainerStart(ctx, containerID, containerTypes.StartOptions{}); err != nil {
		return Result{}, fmt.Errorf("failed to start container: %w", err)
	}

	// Capture output through the log driver; the tool runs unattached.
	var stdout, stderr bytes.Buffer
	outputDone := make(chan error, 1)
	go func() {
		logs, err := inv.client.ContainerLogs(ctx, containerID, containerTypes.LogsOptions{
			ShowStdout: true,
			ShowStderr: true,
			Follow:     true,
		})
		if err != nil {
			outputDone <- err
			return
		}
		defer logs.Close()
		_, err = stdcopy.StdCopy(&stdout, &stderr, logs)
		outputDone <- err
	}()

	statusCh, errCh := inv.client.ContainerWait(ctx, containerID, containerTypes.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		<-outputDone
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if err == nil {
			err = fmt.Errorf("wait ended without a status")
		}
		return Result{}, fmt.Errorf("error waiting for container: %w", err)
	case status := <-statusCh:
		<-outputDone
		return Result{
			ExitCode: int(status.StatusCode),
			Stdout:   scrub(stdout.String()),
			Stderr:   scrub(stderr.String()),
		}, nil
	case <-ctx.Done():
		// Interrupted; stop the container and abort the run.
		stopCtx := context.Background()
		timeout := 5
		_ = inv.client.ContainerStop(stopCtx, containerID, containerTypes.StopOptions{Timeout: &timeout})
		return Result{}, ctx.Err()
	}
}

// buildContainerConfig maps a command and profile onto the Docker container
// and host configuration.
func buildContainerConfig(workspace string, cmd Command, profile Profile, args []string) (*containerTypes.Config, *containerTypes.HostConfig, error) {
	fullArgs := strslice.StrSlice{}
	fullArgs = append(fullArgs, cmd.Args...)
	fullArgs = append(fullArgs, args...)

	// HOME points at tmpfs so tools that write caches still work under a
	// read-only rootfs and a non-root user.
	env := []string{
		"PATH=/usr/local/bin:/usr/bin:/bin",
		"HOME=/tmp",
	}

	mounts := []mount.Mount{
		{
			Type:     mount.TypeBind,
			Source:   workspace,
			Target:   config.WorkspaceTarget,
			ReadOnly: !profile.WorkspaceWritable,
		},
	}

	if profile.ReadOnlyRoot {
		for _, path := range []string{"/tmp", "/run", "/var/tmp"} {
			mounts = append(mounts, mount.Mount{
				Type:   mount.TypeTmpfs,
				Target: path,
			})
		}
	}

	user := resolveUser(profile.User)

	var memoryLimit int64
	if profile.MemoryLimit != "" {
		limit, err := units.RAMInBytes(profile.MemoryLimit)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid memory limit %q: %w", profile.MemoryLimit, err)
		}
		memoryLimit = limit
	}

	containerConfig := &containerTypes.Config{
		Image:      cmd.Image,
		Cmd:        fullArgs,
		Env:        env,
		WorkingDir: config.WorkspaceTarget,
		User:       user,
	}

	hostConfig := &containerTypes.HostConfig{
		Mounts:         mounts,
		NetworkMode:    containerTypes.NetworkMode(config.NetworkNone),
		ReadonlyRootfs: profile.ReadOnlyRoot,
		AutoRemove:     false, // cleaned up manually in defer
		Resources: containerTypes.Resources{
			Memory: memoryLimit,
		},
	}

	if profile.DropCapabilities {
		hostConfig.CapDrop = strslice.StrSlice{"ALL"}
	}
	if profile.NoNewPrivileges {
		hostConfig.SecurityOpt = append(hostConfig.SecurityOpt, "no-new-privileges")
	}

	return containerConfig, hostConfig, nil
}

func resolveUser(user string) string {
	if user == config.UserAuto {
		return fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid())
	}
	return user
}
