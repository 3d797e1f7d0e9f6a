package auth

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Helpline/internal/domain"
)

type Result struct {
	AuthToken    string          `json:"authToken"`
	RefreshToken string          `json:"refreshToken"`
	User         *domain.MaxUser `json:"user"`
}

type Service struct {
	Validator *Validator
	Tokens    *TokenIssuer
}

func NewService(secret string) *Service {
	return &Service{
		Validator: NewValidator(secret),
		Tokens:    NewTokenIssuer(),
	}
}

func (s *Service) Authenticate(webAppData string) (*Result, error) {
	user, err := s.Validator.Validate(webAppData)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.auth").Msg("webAppData rejected")
		return nil, err
	}
	pair, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	log.Info().Str("module", "app.auth").Int64("user_id", user.ID).Msg("tokens issued")
	return &Result{AuthToken: pair.AuthToken, RefreshToken: pair.RefreshToken, User: user}, nil
}
