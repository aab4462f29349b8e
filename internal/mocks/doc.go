// Package mocks provides shared testify mocks of the service interfaces, for
// tests of the packages that sit on top of them (HTTP handlers, commands).
//
//	svc := new(mocks.MockDeckService)
//	svc.On("CreateDailyDeck", mock.Anything, "u1").Return(deck, nil)
package mocks
