package usecase

// StoreStatus is the loading and error surface every resource store shares.
type StoreStatus interface {
	Loading() bool
	Error() string
	ClearError()
	SubscribeLoading(fn func(bool)) (cancel func())
	SubscribeError(fn func(string)) (cancel func())
}
