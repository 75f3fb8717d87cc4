// Package profile captures CPU and memory profiles of a conversion.
//
// Compositing large sheets with the Lanczos kernel dominates run time, so the
// CLI exposes hidden flags to profile it:
//
//	vidtoss --cpu-profile=cpu.prof --mem-profile=mem.prof clip.mp4 sheet.png
//
// Create a [Config], register its flags, and wrap command execution with
// [Profiler.Start] and [Profiler.Stop].
package profile
