package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/spf13/cobra"

	"github.com/totegamma/rdmc-registry/client"
)

const requestTimeout = 30 * time.Second

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE",
	Short: "Upload a JSON or YAML manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

var getCmd = &cobra.Command{
	Use:   "get EXTERNAL_ID",
	Short: "Show one collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	ingestCmd.Flags().String("external-id", "", "external identifier of the collection")
	ingestCmd.Flags().String("scheme", "", "scheme of the external identifier")
	ingestCmd.Flags().String("pid", "", "persistent identifier")
	ingestCmd.Flags().String("pid-scheme", "", "scheme of the persistent identifier")
	_ = ingestCmd.MarkFlagRequired("external-id")

	listCmd.Flags().String("subject", "", "filter by subject")
	listCmd.Flags().String("license", "", "filter by license")
	listCmd.Flags().String("container-concept", "", "filter by container concept")
	listCmd.Flags().String("orcid", "", "list collections with a contributor having this ORCID")
	listCmd.Flags().String("email", "", "list collections with a contributor having this email")
}

func newClient(cmd *cobra.Command) *client.Client {
	server, _ := cmd.Flags().GetString("server")
	return client.New(server)
}

func runIngest(cmd *cobra.Command, args []string) error {
	manifest, err := readManifest(args[0])
	if err != nil {
		return err
	}

	request := client.IngestRequest{Manifest: manifest}
	request.ExternalID, _ = cmd.Flags().GetString("external-id")
	request.ExternalIDScheme = optionalFlag(cmd, "scheme")
	request.PID = optionalFlag(cmd, "pid")
	request.PIDScheme = optionalFlag(cmd, "pid-scheme")

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	detail, err := newClient(cmd).Ingest(ctx, request)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), detail)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	detail, err := newClient(cmd).Get(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), detail)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	cl := newClient(cmd)
	orcid, _ := cmd.Flags().GetString("orcid")
	email, _ := cmd.Flags().GetString("email")

	var (
		summaries []client.Summary
		err       error
	)
	if orcid != "" || email != "" {
		summaries, err = cl.ByContributor(ctx, orcid, email)
	} else {
		opts := client.ListOptions{}
		opts.Subject, _ = cmd.Flags().GetString("subject")
		opts.License, _ = cmd.Flags().GetString("license")
		opts.ContainerConcept, _ = cmd.Flags().GetString("container-concept")
		summaries, err = cl.List(ctx, opts)
	}
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), summaries)
}

// readManifest loads a manifest file. YAML files are converted to JSON.
func readManifest(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if doc == nil {
			return nil, fmt.Errorf("%s: manifest must be a mapping", path)
		}
		return json.Marshal(jsonCompatible(doc))
	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("%s: invalid JSON", path)
		}
		return json.RawMessage(data), nil
	}
}

// jsonCompatible rewrites the map[interface{}]interface{} values the YAML
// decoder produces for nested mappings into map[string]any.
func jsonCompatible(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = jsonCompatible(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = jsonCompatible(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = jsonCompatible(val)
		}
		return out
	default:
		return v
	}
}

func optionalFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, _ := cmd.Flags().GetString(name)
	return &value
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
