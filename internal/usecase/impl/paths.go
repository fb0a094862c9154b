package impl

import "strconv"

const (
	pathSignup      = "/auth/signup"
	pathLogin       = "/auth/login"
	pathLogout      = "/auth/logout"
	pathLogoutAll   = "/auth/logoutall"
	pathVerify      = "/auth/verify"
	pathRefresh     = "/auth/refresh"
	pathMe          = "/users/me"
	pathMyAddress   = "/users/me/address"
	pathCart        = "/cart"
	pathCartAdd     = "/cart/add"
	pathCartRemove  = "/cart/remove/"
	pathProducts    = "/products"
	pathProductAdd  = "/products/add-produit"
	pathSearch      = "/products/search"
	pathByCategory  = "/products/category/"
	pathCategories  = "/category/all"
	pathCategory    = "/category"
	pathOrders      = "/orders"
	pathPlaceOrder  = "/orders/place"
	pathAdminOrders = "/orders/admin/"
	pathAllUsers    = "/users/alluser"
	pathUsersAddr   = "/users/users-with-addresses"
	pathFindUser    = "/users/find"
	pathSetRole     = "/users/setrole/"
	pathRemoveRole  = "/users/removerole/"
	pathDeleteUser  = "/users/Delete/"
)

func idPath(prefix string, id int64, suffix ...string) string {
	p := prefix + strconv.FormatInt(id, 10)
	for _, s := range suffix {
		p += s
	}

	return p
}
