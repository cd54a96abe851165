package oss

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/squirrelip/squirrel_server/config"
)

type Client struct {
	client     *oss.Client
	bucket     *oss.Bucket
	bucketName string
	cdnDomain  string
}

func NewClient(cfg *config.OSSConfig) (*Client, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &Client{
		client:     client,
		bucket:     bucket,
		bucketName: cfg.BucketName,
		cdnDomain:  cfg.CDNDomain,
	}, nil
}

// UploadFile 上传文件并返回访问 URL，contentType 为空时按扩展名推断
func (c *Client) UploadFile(objectKey string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = ContentType(path.Ext(objectKey))
	}
	err := c.bucket.PutObject(objectKey, bytes.NewReader(data), oss.ContentType(contentType))
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return c.GetURL(objectKey), nil
}

func (c *Client) Delete(objectKey string) error {
	err := c.bucket.DeleteObject(objectKey)
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// GetURL 获取文件访问 URL（优先使用 CDN 域名）
func (c *Client) GetURL(objectKey string) string {
	if c.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", c.cdnDomain, objectKey)
	}
	return fmt.Sprintf("https://%s/%s", c.bucketHost(), objectKey)
}

// ContentType 根据扩展名获取 Content-Type
func ContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// ExtractObjectKey 从 URL 中提取 object key
// 只接受本 bucket 或 CDN 域名下的 URL，其他域名一律返回空串
func (c *Client) ExtractObjectKey(rawURL string) string {
	return ExtractObjectKey(rawURL, c.bucketHost(), c.cdnDomain)
}

func (c *Client) bucketHost() string {
	return c.bucketName + "." + endpointHost(c.client.Config.Endpoint)
}

func ExtractObjectKey(rawURL, bucketHost, cdnDomain string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	switch {
	case strings.EqualFold(u.Host, bucketHost):
	case cdnDomain != "" && strings.EqualFold(u.Host, cdnDomain):
	default:
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

// endpointHost 去掉 endpoint 中可能带的协议前缀
func endpointHost(endpoint string) string {
	if i := strings.Index(endpoint, "://"); i >= 0 {
		endpoint = endpoint[i+3:]
	}
	return strings.TrimSuffix(endpoint, "/")
}
