package oss

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType(".pdf"))
	assert.Equal(t, "image/jpeg", ContentType(".JPG"))
	assert.Equal(t, "image/png", ContentType(".png"))
	assert.Equal(t, "application/octet-stream", ContentType(".bin"))
	assert.Equal(t, "application/octet-stream", ContentType(""))
}

func TestExtractObjectKey(t *testing.T) {
	const bucket = "squirrel.oss-ap-south-1.aliyuncs.com"

	tests := []struct {
		name string
		url  string
		cdn  string
		want string
	}{
		{"cdn url", "https://cdn.example.com/patents/p1/document.pdf", "cdn.example.com", "patents/p1/document.pdf"},
		{"bucket url", "https://squirrel.oss-ap-south-1.aliyuncs.com/files/1700000000_a.png", "", "files/1700000000_a.png"},
		{"bucket url with cdn configured", "https://squirrel.oss-ap-south-1.aliyuncs.com/files/x.pdf", "cdn.example.com", "files/x.pdf"},
		{"host match ignores case", "https://CDN.example.com/files/x.pdf", "cdn.example.com", "files/x.pdf"},
		{"foreign host", "https://evil.example/patents/p1/document.pdf", "cdn.example.com", ""},
		{"other bucket", "https://other.oss-ap-south-1.aliyuncs.com/patents/p1/document.pdf", "", ""},
		{"cdn not configured", "https://cdn.example.com/patents/p1/document.pdf", "", ""},
		{"bare name", "x.pdf", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractObjectKey(tt.url, bucket, tt.cdn))
		})
	}
}

func TestEndpointHost(t *testing.T) {
	assert.Equal(t, "oss-ap-south-1.aliyuncs.com", endpointHost("oss-ap-south-1.aliyuncs.com"))
	assert.Equal(t, "oss-ap-south-1.aliyuncs.com", endpointHost("https://oss-ap-south-1.aliyuncs.com/"))
}
