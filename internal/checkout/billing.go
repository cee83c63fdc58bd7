package checkout

import "checkout-api/internal/model"

// PrepareBillingData builds the gateway charge payload from the customer,
// product and order id. Pure transformation: no I/O, built fresh on every
// payment attempt. The caller must never pass a nil product.
func PrepareBillingData(customer model.CustomerData, product *model.Product, orderID string) model.BillingData {
	return model.BillingData{
		Customer: model.CustomerData{
			Name:    customer.Name,
			Email:   customer.Email,
			CpfCnpj: customer.CpfCnpj,
			Phone:   customer.Phone,
		},
		Value:       product.Price,
		Description: product.Name,
		OrderID:     orderID,
	}
}

// billingDataFromOrder rebuilds billing data from a previously persisted
// order, for the retry path where the original customer input is gone.
func billingDataFromOrder(order *model.Order) model.BillingData {
	return model.BillingData{
		Customer: model.CustomerData{
			Name:    order.CustomerName,
			Email:   order.CustomerEmail,
			CpfCnpj: order.CustomerCpfCnpj,
			Phone:   order.CustomerPhone,
		},
		Value:       order.ProductPrice,
		Description: order.ProductName,
		OrderID:     order.ID.String(),
	}
}
