// Package probe inspects PDF sources without rendering them: header
// version, encryption and linearization markers, and sniffed content type.
// It reads at most a few kilobytes from each end of the file.
package probe
