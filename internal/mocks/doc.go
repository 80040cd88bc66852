// Package mocks provides in-memory fakes and test doubles for the
// collaborators of the account service.
//
// The stores keep accounts and pending email changes in maps and enforce the
// same uniqueness rules as the PostgreSQL schema, so service tests exercise
// real lifecycle behavior without a database. MockDispatcher records every
// notification, which lets tests pull emailed tokens out of it.
//
//	accounts := mocks.NewMockAccountStore()
//	dispatcher := mocks.NewMockDispatcher()
//	svc, _ := service.NewAccountService(service.AccountServiceDeps{
//	    Accounts: accounts,
//	    Notifier: dispatcher,
//	    Tx:       mocks.NewMockTxRunner(),
//	    // ...
//	})
//
// Every fake has optional function fields that override its behavior for
// failure injection.
package mocks
