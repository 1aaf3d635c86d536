package controllers

import (
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	monetav1alpha1 "github.com/anvil-platform/moneta/api/v1alpha1"
)

const (
	AmountProviderConditionRegistered = "Registered"
)

func setAmountProviderCondition(provider *monetav1alpha1.AmountProvider, condition metav1.Condition) {
	if provider == nil {
		return
	}
	condition.ObservedGeneration = provider.Generation
	meta.SetStatusCondition(&provider.Status.Conditions, condition)
}
