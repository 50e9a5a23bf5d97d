package infra_s3

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/humanbelnik/kinoreview/internal/config"
)

// MustEstablishConn builds a client for the configured S3 flavour. The mock
// flavour talks to a local S3-compatible server with static credentials.
func MustEstablishConn(cfg config.S3) *s3.Client {
	switch cfg.ClientType {
	case config.S3ClientMock:
		return createMockClient(cfg.MockEndpoint)
	default:
		return createRealClient()
	}
}

func createRealClient() *s3.Client {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatal(err)
	}

	log.Println("[s3] using real client in region:", cfg.Region)
	return s3.NewFromConfig(cfg)
}

func createMockClient(endpoint string) *s3.Client {
	log.Println("[s3] using mock client with endpoint:", endpoint)

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("mock", "mock", "")),
		awsconfig.WithRegion("mock-region"),
	)
	if err != nil {
		log.Fatal("failed to create mock s3 config:", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
}
