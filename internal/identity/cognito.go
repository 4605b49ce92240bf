package identity

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
)

// CognitoProvider implements Provider against an AWS Cognito user pool.
type CognitoProvider struct {
	cip          *cip.Client
	clientID     string
	clientSecret string
}

func NewCognitoProvider(ctx context.Context, region, clientID, clientSecret string) (*CognitoProvider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &CognitoProvider{
		cip:          cip.NewFromConfig(cfg),
		clientID:     clientID,
		clientSecret: clientSecret,
	}, nil
}

// secretHash is required by Cognito when the app client has a secret:
// Base64(HMAC_SHA256(clientSecret, username + clientID)).
func (p *CognitoProvider) secretHash(username string) *string {
	if p.clientSecret == "" {
		return nil
	}
	mac := hmac.New(sha256.New, []byte(p.clientSecret))
	mac.Write([]byte(username + p.clientID))
	h := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return &h
}

func (p *CognitoProvider) Register(ctx context.Context, input RegisterInput) (RegisterOutput, error) {
	out, err := p.cip.SignUp(ctx, &cip.SignUpInput{
		ClientId:   &p.clientID,
		SecretHash: p.secretHash(input.Email),
		Username:   &input.Email,
		Password:   &input.Password,
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: &input.Email},
		},
	})
	if err != nil {
		return RegisterOutput{}, mapProviderError(err)
	}
	return RegisterOutput{
		UID:       aws.ToString(out.UserSub),
		Confirmed: out.UserConfirmed,
	}, nil
}

func (p *CognitoProvider) ConfirmRegistration(ctx context.Context, input ConfirmInput) error {
	_, err := p.cip.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         &p.clientID,
		SecretHash:       p.secretHash(input.Email),
		Username:         &input.Email,
		ConfirmationCode: &input.Code,
	})
	if err != nil {
		return mapProviderError(err)
	}
	return nil
}

func (p *CognitoProvider) ResendCode(ctx context.Context, email string) error {
	_, err := p.cip.ResendConfirmationCode(ctx, &cip.ResendConfirmationCodeInput{
		ClientId:   &p.clientID,
		SecretHash: p.secretHash(email),
		Username:   &email,
	})
	if err != nil {
		return mapProviderError(err)
	}
	return nil
}

func (p *CognitoProvider) Login(ctx context.Context, input LoginInput) (Tokens, error) {
	params := map[string]string{
		"USERNAME": input.Email,
		"PASSWORD": input.Password,
	}
	if h := p.secretHash(input.Email); h != nil {
		params["SECRET_HASH"] = *h
	}

	out, err := p.cip.InitiateAuth(ctx, &cip.InitiateAuthInput{
		ClientId:       &p.clientID,
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: params,
	})
	if err != nil {
		return Tokens{}, mapProviderError(err)
	}
	return tokensFromResult(out.AuthenticationResult)
}

func (p *CognitoProvider) Refresh(ctx context.Context, input RefreshInput) (Tokens, error) {
	params := map[string]string{
		"REFRESH_TOKEN": input.RefreshToken,
	}
	if h := p.secretHash(input.Email); h != nil {
		params["SECRET_HASH"] = *h
	}

	out, err := p.cip.InitiateAuth(ctx, &cip.InitiateAuthInput{
		ClientId:       &p.clientID,
		AuthFlow:       types.AuthFlowTypeRefreshTokenAuth,
		AuthParameters: params,
	})
	if err != nil {
		return Tokens{}, mapProviderError(err)
	}
	return tokensFromResult(out.AuthenticationResult)
}

func tokensFromResult(r *types.AuthenticationResultType) (Tokens, error) {
	if r == nil {
		return Tokens{}, fmt.Errorf("unexpected nil authentication result")
	}
	return Tokens{
		IDToken:      aws.ToString(r.IdToken),
		AccessToken:  aws.ToString(r.AccessToken),
		RefreshToken: aws.ToString(r.RefreshToken),
		ExpiresIn:    r.ExpiresIn,
		TokenType:    aws.ToString(r.TokenType),
	}, nil
}

// mapProviderError folds Cognito API error codes into the sentinel set so
// callers never branch on AWS types.
func mapProviderError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("identity provider: %w", err)
	}

	var sentinel error
	switch apiErr.ErrorCode() {
	case "UsernameExistsException":
		sentinel = ErrAccountExists
	case "UserNotFoundException":
		sentinel = ErrAccountNotFound
	case "UserNotConfirmedException":
		sentinel = ErrNotConfirmed
	case "InvalidPasswordException":
		sentinel = ErrWeakPassword
	case "CodeMismatchException":
		sentinel = ErrBadCode
	case "ExpiredCodeException":
		sentinel = ErrCodeExpired
	case "NotAuthorizedException":
		sentinel = ErrBadCredentials
	case "TooManyRequestsException", "LimitExceededException":
		sentinel = ErrThrottled
	case "InvalidParameterException":
		sentinel = ErrBadParameter
	default:
		return fmt.Errorf("identity provider: %s: %w", apiErr.ErrorCode(), err)
	}

	return fmt.Errorf("%w: %s", sentinel, apiErr.ErrorMessage())
}

var _ Provider = (*CognitoProvider)(nil)
