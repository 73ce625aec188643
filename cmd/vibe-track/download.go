package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// GENCODE FTP URLs
const (
	gencodeBaseURL = "https://ftp.ebi.ac.uk/pub/databases/gencode/Gencode_human/release_46"
	gencodeVersion = "v46"
)

// getGENCODEURL returns the GTF URL for the given assembly.
func getGENCODEURL(assembly string) string {
	if strings.EqualFold(assembly, "GRCh37") {
		return fmt.Sprintf("%s/GRCh37_mapping/gencode.%slift37.annotation.gtf.gz", gencodeBaseURL, gencodeVersion)
	}
	// Default to GRCh38
	return fmt.Sprintf("%s/gencode.%s.annotation.gtf.gz", gencodeBaseURL, gencodeVersion)
}

func newDownloadCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download GENCODE annotation files",
		Long: `Download the GENCODE GTF annotation used to draw transcript tracks.

Files downloaded:
  - gencode.v46.annotation.gtf.gz (~50MB for GRCh38)

After downloading, vibe-track will automatically detect and use this file.`,
		Example: `  # Download GRCh38 annotations (default)
  vibe-track download

  # Download GRCh37 annotations
  vibe-track download --assembly GRCh37

  # Download to a custom directory
  vibe-track download --output /data/gencode`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd.Context(), viper.GetString("assembly"), outputDir)
		},
	}

	cmd.Flags().String("assembly", "GRCh38", "Genome assembly: GRCh37 or GRCh38")
	cmd.Flags().StringVar(&outputDir, "output", "", "Output directory (default: ~/.vibe-track/)")
	return cmd
}

func runDownload(ctx context.Context, assembly, outputDir string) error {
	// Determine output directory
	if outputDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		outputDir = filepath.Join(home, ".vibe-track")
	}

	// Create assembly-specific subdirectory
	destDir := filepath.Join(outputDir, strings.ToLower(assembly))
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", destDir, err)
	}

	gtfURL := getGENCODEURL(assembly)

	fmt.Printf("Downloading GENCODE %s annotations for %s...\n", gencodeVersion, assembly)
	fmt.Printf("Destination: %s\n\n", destDir)

	gtfFile := filepath.Join(destDir, filepath.Base(gtfURL))
	if err := downloadFile(ctx, gtfURL, gtfFile); err != nil {
		return fmt.Errorf("downloading GTF: %w", err)
	}

	fmt.Printf("\nDownload complete!\n")
	fmt.Printf("To draw a gene, run:\n")
	fmt.Printf("  vibe-track render KRAS -o kras.svg\n")
	return nil
}

// downloadFile downloads a file from URL to the destination path with progress.
func downloadFile(ctx context.Context, url, destPath string) error {
	// Check if file already exists
	if info, err := os.Stat(destPath); err == nil {
		fmt.Printf("  %s already exists (%s), skipping\n", filepath.Base(destPath), formatSize(info.Size()))
		return nil
	}

	fmt.Printf("  Downloading %s...\n", filepath.Base(destPath))

	// Create HTTP client with timeout
	client := &http.Client{
		Timeout: 30 * time.Minute, // Long timeout for large files
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %s", resp.Status)
	}

	// Create destination file
	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	pw := &progressWriter{
		total:     resp.ContentLength,
		lastPrint: time.Now(),
	}

	_, err = io.Copy(f, io.TeeReader(resp.Body, pw))
	f.Close()

	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("download failed: %w", err)
	}

	// Rename temp file to final destination
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename file: %w", err)
	}

	fmt.Printf("\n    Done: %s\n", formatSize(pw.downloaded))
	return nil
}

// progressWriter tracks download progress.
type progressWriter struct {
	total      int64
	downloaded int64
	lastPrint  time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.downloaded += int64(n)

	// Print progress every second
	if time.Since(pw.lastPrint) > time.Second {
		if pw.total > 0 {
			pct := float64(pw.downloaded) / float64(pw.total) * 100
			fmt.Printf("\r    Progress: %s / %s (%.1f%%)  ",
				formatSize(pw.downloaded), formatSize(pw.total), pct)
		} else {
			fmt.Printf("\r    Progress: %s  ", formatSize(pw.downloaded))
		}
		pw.lastPrint = time.Now()
	}

	return n, nil
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// DefaultGENCODEPath returns the default path for GENCODE files and the
// parsed-transcript cache.
func DefaultGENCODEPath(assembly string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vibe-track", strings.ToLower(assembly))
}

// FindGENCODEFile looks for a downloaded GENCODE GTF in the default location.
func FindGENCODEFile(assembly string) (gtfPath string, found bool) {
	dir := DefaultGENCODEPath(assembly)
	if dir == "" {
		return "", false
	}

	pattern := "gencode.v*.annotation.gtf.gz"
	if strings.EqualFold(assembly, "GRCh37") {
		pattern = "gencode.v*lift37.annotation.gtf.gz"
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}
