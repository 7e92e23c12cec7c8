package router

import (
	"context"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/store"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/id"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/utils"
)

const shoppingCategory = "shopping"

// AddToCart puts a product in the cart. No money moves until checkout.
func (r *Router) AddToCart(ctx context.Context, req types.AddToCartRequest) (types.CartItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return types.CartItem{}, r.outcome("add_to_cart", err)
	}
	price, err := types.ParseAmount(req.Price)
	if err != nil {
		return types.CartItem{}, r.outcome("add_to_cart", err)
	}

	var added types.CartItem
	var size int
	err = r.store.Update(ctx, func(tx *store.Tx) error {
		item, err := tx.AddCartItem(types.CartItem{
			ProductID: req.ProductID,
			Title:     req.Title,
			Price:     price,
			Store:     req.Store,
			ImageRef:  req.ImageRef,
		})
		if err != nil {
			return err
		}
		added = item
		size = len(tx.CartItems())
		return nil
	})
	if err == nil {
		r.metrics.SetCartItems(size)
	}
	return added, r.outcome("add_to_cart", err)
}

// RemoveFromCart drops a cart line without charging for it
func (r *Router) RemoveFromCart(ctx context.Context, itemID string) error {
	if err := knownID("cart item", id.CartItem, itemID); err != nil {
		return r.outcome("remove_from_cart", err)
	}
	var size int
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		if _, err := tx.RemoveCartItem(itemID); err != nil {
			return err
		}
		size = len(tx.CartItems())
		return nil
	})
	if err == nil {
		r.metrics.SetCartItems(size)
	}
	return r.outcome("remove_from_cart", err)
}

// Checkout charges one cart line to the ledger and removes it from the cart
func (r *Router) Checkout(ctx context.Context, itemID string) (types.Transaction, error) {
	if err := knownID("cart item", id.CartItem, itemID); err != nil {
		return types.Transaction{}, r.outcome("checkout", err)
	}
	var charged types.Transaction
	var size int
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		t, err := checkoutItem(tx, itemID)
		if err != nil {
			return err
		}
		charged = t
		size = len(tx.CartItems())
		return nil
	})
	if err == nil {
		r.metrics.SetCartItems(size)
	}
	return charged, r.outcome("checkout", err)
}

// CheckoutAll charges every cart line. Either all lines are charged or,
// on the first failure, none are.
func (r *Router) CheckoutAll(ctx context.Context) ([]types.Transaction, error) {
	var charged []types.Transaction
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		items := tx.CartItems()
		if len(items) == 0 {
			return &types.ConflictError{Reason: "cart is empty"}
		}
		charged = make([]types.Transaction, 0, len(items))
		for _, item := range items {
			t, err := checkoutItem(tx, item.ID)
			if err != nil {
				return err
			}
			charged = append(charged, t)
		}
		return nil
	})
	if err != nil {
		return nil, r.outcome("checkout_all", err)
	}
	r.metrics.SetCartItems(0)
	return charged, r.outcome("checkout_all", nil)
}

func checkoutItem(tx *store.Tx, itemID string) (types.Transaction, error) {
	item, err := tx.RemoveCartItem(itemID)
	if err != nil {
		return types.Transaction{}, err
	}
	return tx.AppendTransaction(types.Transaction{
		Merchant: item.Store,
		Amount:   item.Price.Neg(),
		Category: shoppingCategory,
	})
}
