package security

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNoExtension       = errors.New("file has no extension")
	ErrExtensionRejected = errors.New("file extension not allowed")
	ErrContentMismatch   = errors.New("file content does not match extension")
	ErrMIMERejected      = errors.New("file type not allowed")
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Lowercased extension without the dot
	DetectedMIME string // MIME type sniffed from content, parameters stripped
	Err          error  // One of the Err* sentinels when validation failed
}

// Magic byte signatures for resume formats
var magicBytes = map[string][][]byte{
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                         // ZIP (PK..)
	".txt":  {},                                                 // no signature, checked as UTF-8
}

// Strict MIME types - DO NOT include application/octet-stream
var strictMIMETypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/x-ole-storage": true,
	"application/zip":           true, // DOCX detection fallback
	"text/plain":                true,
}

// DetectMIME sniffs data and returns the bare MIME type.
func DetectMIME(data []byte) string {
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.TrimSpace(mt)
}

// ValidateResumeFile performs 3-layer file validation:
// 1. Extension whitelist check
// 2. Magic byte verification (content matches extension)
// 3. Sniffed MIME type whitelist (application/octet-stream REJECTED)
func ValidateResumeFile(filename string, data []byte) FileValidationResult {
	result := FileValidationResult{DetectedMIME: DetectMIME(data)}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Err = ErrNoExtension
		return result
	}
	result.Extension = strings.TrimPrefix(ext, ".")

	// Layer 1: Extension whitelist
	if _, ok := magicBytes[ext]; !ok {
		result.Err = ErrExtensionRejected
		return result
	}

	// Layer 2: Magic bytes, or valid UTF-8 for plain text
	if ext == ".txt" {
		if !utf8.Valid(data) {
			result.Err = ErrContentMismatch
			return result
		}
	} else if !validateMagicBytes(ext, data) {
		result.Err = ErrContentMismatch
		return result
	}

	// Layer 3: MIME whitelist. Word documents already passed the signature check.
	// UTF-8 text may sniff as csv, json or html; it is still stored as plain text.
	if ext == ".txt" {
		if !textLikeMIME(result.DetectedMIME) {
			result.Err = ErrMIMERejected
			return result
		}
		result.DetectedMIME = "text/plain"
	} else if !strictMIMETypes[result.DetectedMIME] && ext != ".docx" && ext != ".doc" {
		result.Err = ErrMIMERejected
		return result
	}

	result.Valid = true
	return result
}

func textLikeMIME(mt string) bool {
	return strings.HasPrefix(mt, "text/") || mt == "application/json"
}

func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// AllowedExtensions lists the accepted resume extensions for error messages
func AllowedExtensions() []string {
	return []string{"pdf", "doc", "docx", "txt"}
}
