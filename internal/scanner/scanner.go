// Package scanner provides component discovery and parsing for marklet
// component files.
//
// The scanner traverses file systems to find .html component files, parses
// their metadata comment and top-level sections, and registers the result in
// the component registry. It supports recursive directory scanning with
// exclude patterns, maintains CRC32 content hashes for change detection, and
// processes batches concurrently via a persistent worker pool.
package scanner

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/conneroisu/marklet/internal/registry"
)

// ScanJob represents a scanning job for the worker pool containing the file
// path to scan and a result channel for asynchronous communication.
type ScanJob struct {
	// filePath is the path to the .html file to be scanned
	filePath string
	// result channel receives the scan result or error asynchronously
	result chan<- ScanResult
}

// HashResult represents the result of asynchronous hash calculation
type HashResult struct {
	hash string
	err  error
}

// BufferPool manages reusable byte buffers for file reading optimization
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool creates a new buffer pool with initial buffer size
func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				// Pre-allocate 64KB buffers for typical component files
				return make([]byte, 0, 64*1024)
			},
		},
	}
}

// Get retrieves a buffer from the pool
func (bp *BufferPool) Get() []byte {
	return bp.pool.Get().([]byte)[:0] // Reset length but keep capacity
}

// Put returns a buffer to the pool
func (bp *BufferPool) Put(buf []byte) {
	// Only pool reasonably-sized buffers to avoid memory leaks
	if cap(buf) <= 1024*1024 { // 1MB limit
		bp.pool.Put(buf)
	}
}

// ScanResult represents the result of a scanning operation, containing either
// success status or error information for a specific file.
type ScanResult struct {
	// filePath is the path that was scanned
	filePath string
	// err contains any error that occurred during scanning, nil on success
	err error
}

// WorkerPool manages persistent scanning workers that distribute parsing
// jobs across CPU cores.
type WorkerPool struct {
	// jobQueue buffers scanning jobs for worker distribution
	jobQueue chan ScanJob
	// workers holds references to all active worker goroutines
	workers []*ScanWorker
	// workerCount defines the number of concurrent workers (typically NumCPU)
	workerCount int
	// scanner is the shared component scanner instance
	scanner *ComponentScanner
	// stop signals all workers to terminate gracefully
	stop chan struct{}
	// stopped tracks pool shutdown state
	stopped bool
	// mu protects concurrent access to pool state
	mu sync.RWMutex
}

// ScanWorker represents a persistent worker goroutine that processes scanning
// jobs from the shared job queue.
type ScanWorker struct {
	// id uniquely identifies this worker for debugging and metrics
	id int
	// jobQueue receives scanning jobs from the worker pool
	jobQueue <-chan ScanJob
	// scanner provides the component parsing functionality
	scanner *ComponentScanner
	// stop signals this worker to terminate gracefully
	stop chan struct{}
}

// ComponentScanner discovers and parses marklet component files.
//
// The scanner provides:
// - Recursive directory traversal with exclude patterns
// - Metadata comment and section extraction from component files
// - Concurrent processing via worker pool
// - Integration with component registry for event broadcasting
// - File change detection using CRC32 hashing
// - Optimized path validation with cached working directory
// - Buffer pooling for memory optimization in large component sets
type ComponentScanner struct {
	// registry receives discovered components and broadcasts change events
	registry *registry.ComponentRegistry
	// excludePatterns holds filepath.Match patterns applied to candidates
	excludePatterns []string
	// workerPool manages concurrent scanning operations
	workerPool *WorkerPool
	// pathCache contains cached path validation data to avoid repeated syscalls
	pathCache *pathValidationCache
	// bufferPool provides reusable byte buffers for file reading optimization
	bufferPool *BufferPool
}

// pathValidationCache caches expensive filesystem operations for optimal performance
type pathValidationCache struct {
	// mu protects concurrent access to cache fields
	mu sync.RWMutex
	// currentWorkingDir is the cached current working directory (absolute path)
	currentWorkingDir string
	// initialized indicates whether the cache has been populated
	initialized bool
}

// NewComponentScanner creates a new component scanner with a persistent
// worker pool.
func NewComponentScanner(registry *registry.ComponentRegistry) *ComponentScanner {
	scanner := &ComponentScanner{
		registry:   registry,
		pathCache:  &pathValidationCache{},
		bufferPool: NewBufferPool(),
	}

	// Initialize worker pool with optimal worker count
	workerCount := runtime.NumCPU()
	if workerCount > 8 {
		workerCount = 8 // Cap at 8 workers for diminishing returns
	}

	scanner.workerPool = NewWorkerPool(workerCount, scanner)
	return scanner
}

// SetExcludePatterns installs the configured exclude patterns. Patterns are
// matched against both the base name and the slash path of each candidate.
func (s *ComponentScanner) SetExcludePatterns(patterns []string) {
	s.excludePatterns = patterns
}

// NewWorkerPool creates a new worker pool for scanning operations
func NewWorkerPool(workerCount int, scanner *ComponentScanner) *WorkerPool {
	pool := &WorkerPool{
		jobQueue:    make(chan ScanJob, workerCount*2), // Buffer for work-stealing efficiency
		workerCount: workerCount,
		scanner:     scanner,
		stop:        make(chan struct{}),
	}

	// Start persistent workers
	pool.workers = make([]*ScanWorker, workerCount)
	for i := 0; i < workerCount; i++ {
		worker := &ScanWorker{
			id:       i,
			jobQueue: pool.jobQueue,
			scanner:  scanner,
			stop:     make(chan struct{}),
		}
		pool.workers[i] = worker
		go worker.start()
	}

	return pool
}

// start begins the worker's processing loop
func (w *ScanWorker) start() {
	for {
		select {
		case job, ok := <-w.jobQueue:
			if !ok {
				return
			}
			// Process the scanning job
			err := w.scanner.scanFileInternal(job.filePath)
			job.result <- ScanResult{
				filePath: job.filePath,
				err:      err,
			}
		case <-w.stop:
			return
		}
	}
}

// Stop gracefully shuts down the worker pool
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}

	p.stopped = true
	close(p.stop)

	// Stop all workers
	for _, worker := range p.workers {
		close(worker.stop)
	}

	// Close job queue
	close(p.jobQueue)
}

// GetRegistry returns the component registry
func (s *ComponentScanner) GetRegistry() *registry.ComponentRegistry {
	return s.registry
}

// Close gracefully shuts down the scanner and its worker pool
func (s *ComponentScanner) Close() error {
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	return nil
}

// ScanDirectory scans a directory tree for component files and registers
// every component it finds. Every file is attempted; failures are collected
// and reported together so one broken source cannot hide another.
func (s *ComponentScanner) ScanDirectory(dir string) error {
	files, err := s.DiscoverFiles(dir)
	if err != nil {
		return err
	}

	// Process files using persistent worker pool (no goroutine creation overhead)
	return s.processBatchWithWorkerPool(files)
}

// DiscoverFiles walks a directory and returns the candidate component file
// paths: .html files under dir that survive the exclude patterns. Callers
// that need per-file error reporting pair this with ScanFile.
func (s *ComponentScanner) DiscoverFiles(dir string) ([]string, error) {
	// Validate directory path to prevent path traversal
	if _, err := s.validatePath(dir); err != nil {
		return nil, fmt.Errorf("invalid directory path: %w", err)
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		if s.isExcluded(path) {
			return nil
		}

		// Validate each file path as we encounter it
		if _, err := s.validatePath(path); err != nil {
			// Skip invalid paths silently for security
			return nil
		}

		files = append(files, path)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// isExcluded reports whether a candidate path matches a configured exclude
// pattern, either by base name or by slash path.
func (s *ComponentScanner) isExcluded(path string) bool {
	base := filepath.Base(path)
	slashPath := filepath.ToSlash(path)

	for _, pattern := range s.excludePatterns {
		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(pattern, slashPath); err == nil && matched {
			return true
		}
	}

	return false
}

// processBatchWithWorkerPool processes files using the persistent worker pool with optimized batching
func (s *ComponentScanner) processBatchWithWorkerPool(files []string) error {
	if len(files) == 0 {
		return nil
	}

	// For very small batches, process synchronously to avoid overhead
	if len(files) <= 5 {
		return s.processBatchSynchronous(files)
	}

	// Create result channel for collecting results
	resultChan := make(chan ScanResult, len(files))

	// Submit jobs to persistent worker pool
	for _, file := range files {
		job := ScanJob{
			filePath: file,
			result:   resultChan,
		}

		select {
		case s.workerPool.jobQueue <- job:
			// Job submitted successfully
		default:
			// Worker pool is full, process synchronously as fallback
			err := s.scanFileInternal(file)
			resultChan <- ScanResult{filePath: file, err: err}
		}
	}

	// Collect results
	var errors []error
	for i := 0; i < len(files); i++ {
		result := <-resultChan
		if result.err != nil {
			errors = append(errors, fmt.Errorf("scanning %s: %w", result.filePath, result.err))
		}
	}

	close(resultChan)

	if len(errors) > 0 {
		return fmt.Errorf("scan completed with %d errors: %w", len(errors), errors[0])
	}

	return nil
}

// processBatchSynchronous processes small batches synchronously for better performance
func (s *ComponentScanner) processBatchSynchronous(files []string) error {
	var errors []error

	for _, file := range files {
		if err := s.scanFileInternal(file); err != nil {
			errors = append(errors, fmt.Errorf("scanning %s: %w", file, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("scan completed with %d errors: %w", len(errors), errors[0])
	}

	return nil
}

// ScanFile scans a single component file
func (s *ComponentScanner) ScanFile(path string) error {
	return s.scanFileInternal(path)
}

// scanFileInternal is the optimized internal scanning method used by workers
func (s *ComponentScanner) scanFileInternal(path string) error {
	// Validate and clean the path to prevent directory traversal
	cleanPath, err := s.validatePath(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasSuffix(cleanPath, ".html") {
		return fmt.Errorf("not a component file: %s", cleanPath)
	}

	// Single I/O operation: open file and get both content and info
	file, err := os.Open(cleanPath)
	if err != nil {
		return fmt.Errorf("opening file %s: %w", cleanPath, err)
	}
	defer file.Close()

	// Get file info without separate Stat() call
	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("getting file info for %s: %w", cleanPath, err)
	}

	// Get buffer from pool for optimized memory usage
	buffer := s.bufferPool.Get()
	defer s.bufferPool.Put(buffer)

	// Read content efficiently using buffer pool
	var content []byte
	if info.Size() > 64*1024 {
		// Use streaming read for large files to reduce memory pressure
		content, err = s.readFileStreamingOptimized(file, info.Size(), buffer)
	} else {
		// Use pooled buffer for small files
		if cap(buffer) < int(info.Size()) {
			buffer = make([]byte, info.Size())
		}
		buffer = buffer[:info.Size()]
		_, err = io.ReadFull(file, buffer)
		if err == nil {
			content = make([]byte, len(buffer))
			copy(content, buffer)
		}
	}

	if err != nil {
		return fmt.Errorf("reading file %s: %w", cleanPath, err)
	}

	// For large files, calculate hash asynchronously while parsing.
	// For small files, do it synchronously to avoid goroutine overhead.
	var hash string
	if info.Size() > 64*1024 {
		hashChan := make(chan HashResult, 1)
		go func() {
			hashChan <- HashResult{hash: fmt.Sprintf("%x", crc32.ChecksumIEEE(content))}
		}()

		// Parse sections while the hash calculates
		component, parseErr := parseComponentFile(cleanPath, content, info.ModTime())

		hashResult := <-hashChan
		if parseErr != nil {
			return parseErr
		}
		component.Hash = hashResult.hash

		return s.registry.Register(component)
	}

	hash = fmt.Sprintf("%x", crc32.ChecksumIEEE(content))
	component, err := parseComponentFile(cleanPath, content, info.ModTime())
	if err != nil {
		return err
	}
	component.Hash = hash

	return s.registry.Register(component)
}

// readFileStreamingOptimized reads large files using pooled buffers for better memory efficiency
func (s *ComponentScanner) readFileStreamingOptimized(file *os.File, size int64, pooledBuffer []byte) ([]byte, error) {
	const chunkSize = 32 * 1024 // 32KB chunks

	// Use a reasonably-sized chunk buffer for reading
	var chunk []byte
	if cap(pooledBuffer) >= chunkSize {
		chunk = pooledBuffer[:chunkSize]
	} else {
		chunk = make([]byte, chunkSize)
	}

	// Pre-allocate content buffer with exact size to avoid reallocations
	content := make([]byte, 0, size)

	for {
		n, err := file.Read(chunk)
		if n > 0 {
			content = append(content, chunk[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
	}

	return content, nil
}

// validatePath validates and cleans a file path to prevent directory traversal.
// The current working directory is cached to avoid repeated expensive
// filesystem operations.
func (s *ComponentScanner) validatePath(path string) (string, error) {
	// Clean the path to resolve . and .. elements
	cleanPath := filepath.Clean(path)

	// Get absolute path to normalize (needed for working directory check)
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return "", fmt.Errorf("getting absolute path: %w", err)
	}

	// Get cached current working directory
	cwd, err := s.getCachedWorkingDir()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}

	// Primary security check: ensure the path is within the current working
	// directory. This prevents directory traversal attacks that escape the
	// working directory.
	if !strings.HasPrefix(absPath, cwd) {
		return "", fmt.Errorf("path %s is outside current working directory", path)
	}

	// Secondary security check: reject paths with suspicious patterns that
	// stay within the working directory.
	if strings.Contains(cleanPath, "..") {
		return "", fmt.Errorf("path contains directory traversal: %s", path)
	}

	return cleanPath, nil
}

// getCachedWorkingDir returns the current working directory from cache,
// initializing it on first access. This eliminates repeated os.Getwd() calls.
func (s *ComponentScanner) getCachedWorkingDir() (string, error) {
	// Fast path: check if already initialized with read lock
	s.pathCache.mu.RLock()
	if s.pathCache.initialized {
		cwd := s.pathCache.currentWorkingDir
		s.pathCache.mu.RUnlock()
		return cwd, nil
	}
	s.pathCache.mu.RUnlock()

	// Slow path: initialize the cache with write lock
	s.pathCache.mu.Lock()
	defer s.pathCache.mu.Unlock()

	// Double-check pattern: another goroutine might have initialized while waiting
	if s.pathCache.initialized {
		return s.pathCache.currentWorkingDir, nil
	}

	// Get current working directory (expensive syscall - done only once)
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Ensure we have the absolute path for consistent comparison
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("getting absolute working directory: %w", err)
	}

	// Cache the result
	s.pathCache.currentWorkingDir = absCwd
	s.pathCache.initialized = true

	return absCwd, nil
}

// InvalidatePathCache clears the cached working directory.
// This should be called if the working directory changes during execution.
func (s *ComponentScanner) InvalidatePathCache() {
	s.pathCache.mu.Lock()
	defer s.pathCache.mu.Unlock()
	s.pathCache.initialized = false
	s.pathCache.currentWorkingDir = ""
}
